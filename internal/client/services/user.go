package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/client/forms"
	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/logging"
)

type UserService interface {
	Search(ctx context.Context, username string, page int) (Page[models.User], error)
	Get(ctx context.Context, id models.ID) (models.User, error)
	Update(ctx context.Context, id models.ID, u models.UserUpdate) error
	Delete(ctx context.Context, id models.ID) error
}

type userService struct {
	client client.UserAPI
	log    logging.Logger
}

func NewUserService(c client.UserAPI, log logging.Logger) UserService {
	return &userService{client: c, log: log.With("service", "users")}
}

// Search asks the server for one page of users whose name contains
// username. page is 1-based.
func (s *userService) Search(ctx context.Context, username string, page int) (Page[models.User], error) {
	if page < 1 {
		page = 1
	}
	query := ""
	if u := strings.TrimSpace(username); u != "" {
		query = client.UsernameQuery(u)
	}

	p, err := s.client.SearchUsers(ctx, query, page-1, PageSize)
	if err != nil {
		return Page[models.User]{}, err
	}
	return Page[models.User]{Items: p.Content, Number: page, Total: p.TotalElements}, nil
}

func (s *userService) Get(ctx context.Context, id models.ID) (models.User, error) {
	return s.client.GetUser(ctx, id)
}

func (s *userService) Update(ctx context.Context, id models.ID, u models.UserUpdate) error {
	u.FullName = strings.TrimSpace(u.FullName)
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	u.Role = strings.TrimSpace(u.Role)
	if err := forms.Validate(forms.UserEdit{FullName: u.FullName, Username: u.Username, Email: u.Email, Role: u.Role}); err != nil {
		return err
	}
	if err := s.client.UpdateUser(ctx, id, u); err != nil {
		return err
	}
	s.log.Info(ctx, "user updated", "id", id)
	return nil
}

func (s *userService) Delete(ctx context.Context, id models.ID) error {
	if err := s.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "user deleted", "id", id)
	return nil
}
