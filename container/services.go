package container

import (
	"fmt"
	"time"

	"github.com/sony/sonyflake"

	"github.com/joaop06/jcoder/internal/svc/applicationsvc"
	"github.com/joaop06/jcoder/internal/svc/componentsvc"
	"github.com/joaop06/jcoder/internal/svc/ordering"
	"github.com/joaop06/jcoder/pkg/cache"
	"github.com/joaop06/jcoder/pkg/uid"
)

type Services interface {
	UIDGen() uid.UID
	Application() applicationsvc.Service
}

type ServicesImpl struct {
	uidGen      uid.UID
	application applicationsvc.Service
}

var _ Services = (*ServicesImpl)(nil)

func SetupServices(svcCfg ConfigServices, repos Repositories, redisConn *RedisConnMaker) (svc *ServicesImpl, err error) {
	if repos == nil {
		err = fmt.Errorf("nil repositories on services preparation")
		return
	}

	uidGen := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime:      time.Date(2023, 7, 12, 0, 0, 0, 0, time.UTC),
		MachineID:      nil,
		CheckMachineID: nil,
	})

	if uidGen == nil {
		err = fmt.Errorf("uid generator is nil")
		return
	}

	dbLabel := svcCfg.Application.DBLabel

	sqlConn, err := repos.SqlxConn(dbLabel)
	if err != nil {
		err = fmt.Errorf("services cannot get sql connection: %w", err)
		return
	}

	userRepo, err := repos.UserRepo(dbLabel)
	if err != nil {
		err = fmt.Errorf("services cannot get user repo: %w", err)
		return
	}

	applicationRepo, err := repos.ApplicationRepo(dbLabel)
	if err != nil {
		err = fmt.Errorf("services cannot get application repo: %w", err)
		return
	}

	componentRepo, err := repos.ComponentRepo(dbLabel)
	if err != nil {
		err = fmt.Errorf("services cannot get component repo: %w", err)
		return
	}

	orchestrator, err := componentsvc.NewDefaultOrchestrator(componentsvc.DefaultOrchestratorConfig{
		ComponentRepo:   componentRepo,
		ApplicationRepo: applicationRepo,
	})
	if err != nil {
		err = fmt.Errorf("services cannot prepare component orchestrator: %w", err)
		return
	}

	orderingEngine, err := ordering.New(ordering.DefaultEngineConfig{
		Applications: applicationRepo,
	})
	if err != nil {
		err = fmt.Errorf("services cannot prepare ordering engine: %w", err)
		return
	}

	appCache, err := setupCache(svcCfg.Application.Cache, redisConn)
	if err != nil {
		err = fmt.Errorf("services cannot prepare cache: %w", err)
		return
	}

	applicationService, err := applicationsvc.New(applicationsvc.DefaultServiceConfig{
		DB:              sqlConn,
		UIDGen:          uidGen,
		UserRepo:        userRepo,
		ApplicationRepo: applicationRepo,
		ComponentRepo:   componentRepo,
		Orchestrator:    orchestrator,
		Ordering:        orderingEngine,
		Cache:           appCache,
		CacheExpiry:     time.Duration(svcCfg.Application.Cache.ExpirySeconds) * time.Second,
	})
	if err != nil {
		err = fmt.Errorf("services cannot prepare application service: %w", err)
		return
	}

	svc = &ServicesImpl{
		uidGen:      uidGen,
		application: applicationService,
	}

	return svc, nil
}

func setupCache(conf ConfigServiceCache, redisConn *RedisConnMaker) (cache.Cache, error) {
	switch conf.Backend {
	case "redis":
		if redisConn == nil {
			return nil, fmt.Errorf("cache backend is redis but no redis resources configured")
		}

		client, err := redisConn.Get(conf.RedisLabel)
		if err != nil {
			return nil, err
		}

		return cache.NewRedis(cache.RedisConfig{DB: client})

	case "inmemory", "":
		return cache.NewInMemory()

	default:
		return nil, fmt.Errorf("unknown cache backend: %s", conf.Backend)
	}
}

func (s *ServicesImpl) UIDGen() uid.UID {
	return s.uidGen
}

func (s *ServicesImpl) Application() applicationsvc.Service {
	return s.application
}
