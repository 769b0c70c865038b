package componentrepo

// Slot names one of the four structured component kinds an application can carry.
type Slot string

const (
	SlotApi      Slot = "api"
	SlotMobile   Slot = "mobile"
	SlotLibrary  Slot = "library"
	SlotFrontend Slot = "frontend"
)

func (s Slot) String() string {
	return string(s)
}

// AllSlots in a fixed order, used when computing slots to clean up on a type change.
func AllSlots() []Slot {
	return []Slot{SlotApi, SlotMobile, SlotLibrary, SlotFrontend}
}

type MobilePlatform string

const (
	PlatformAndroid       MobilePlatform = "ANDROID"
	PlatformIOS           MobilePlatform = "IOS"
	PlatformCrossPlatform MobilePlatform = "CROSS_PLATFORM"
)

// Each component row shares its primary key with the owning application,
// so "the component for this application" is a single keyed lookup.
// Json tag is used for caching.

type ApiComponent struct {
	ApplicationID       int64  `json:"application_id" db:"application_id" validate:"required"`
	Domain              string `json:"domain" db:"domain" validate:"required"`
	ApiURL              string `json:"api_url" db:"api_url" validate:"required,url"`
	DocumentationURL    string `json:"documentation_url" db:"documentation_url" validate:"omitempty,url"`
	HealthCheckEndpoint string `json:"health_check_endpoint" db:"health_check_endpoint" validate:"-"`
}

type MobileComponent struct {
	ApplicationID   int64          `json:"application_id" db:"application_id" validate:"required"`
	Platform        MobilePlatform `json:"platform" db:"platform" validate:"required,oneof=ANDROID IOS CROSS_PLATFORM"`
	DownloadURL     string         `json:"download_url" db:"download_url" validate:"omitempty,url"`
	AssociatedApiID int64          `json:"associated_api_id" db:"associated_api_id" validate:"min=0"`
}

type LibraryComponent struct {
	ApplicationID     int64  `json:"application_id" db:"application_id" validate:"required"`
	PackageManagerURL string `json:"package_manager_url" db:"package_manager_url" validate:"required,url"`
	ReadmeContent     string `json:"readme_content" db:"readme_content" validate:"-"`
}

type FrontendComponent struct {
	ApplicationID   int64  `json:"application_id" db:"application_id" validate:"required"`
	FrontendURL     string `json:"frontend_url" db:"frontend_url" validate:"required,url"`
	ScreenshotURL   string `json:"screenshot_url" db:"screenshot_url" validate:"omitempty,url"`
	AssociatedApiID int64  `json:"associated_api_id" db:"associated_api_id" validate:"min=0"`
}

// Components is the hydrated bag of optional slots for one application.
type Components struct {
	Api      *ApiComponent      `json:"api,omitempty"`
	Mobile   *MobileComponent   `json:"mobile,omitempty"`
	Library  *LibraryComponent  `json:"library,omitempty"`
	Frontend *FrontendComponent `json:"frontend,omitempty"`
}
