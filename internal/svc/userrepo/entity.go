package userrepo

// User owns applications. Deleting a user cascades at the database level.
// Json tag is used for caching.
type User struct {
	ID       int64  `json:"id" db:"id" validate:"required"`
	Email    string `json:"email" db:"email" validate:"required,email"`
	FullName string `json:"full_name" db:"full_name" validate:"-"`

	// Timestamp using integer as unix microsecond in UTC
	CreatedAt int64 `json:"created_at" db:"created_at" validate:"required"`
	UpdatedAt int64 `json:"updated_at" db:"updated_at" validate:"required"`
	DeletedAt int64 `json:"deleted_at" db:"deleted_at" validate:"-"`
}
