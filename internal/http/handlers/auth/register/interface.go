package register

import (
	"context"

	"github.com/magabrotheeeer/chemical-visualizer/internal/models"
)

// Service регистрирует нового пользователя.
type Service interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
}
