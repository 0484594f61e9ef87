package login

import (
	"context"

	"github.com/magabrotheeeer/chemical-visualizer/internal/models"
)

// Service проверяет учётные данные пользователя.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
}
