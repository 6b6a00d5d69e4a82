package tables

import (
	"time"

	"github.com/google/uuid"
)

type AdminUser struct {
	tableName    struct{}  `bun:"table:admin_users,alias:au"`
	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Email        string    `bun:"email,notnull" json:"email"` // unique
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	Role         string    `bun:"role,notnull" json:"role"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
}
