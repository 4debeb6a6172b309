package handlers

import (
	"strings"

	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const defaultUserLimit = 10

type UsersHandler struct {
	userRepo *repository.UserRepository
}

// UserListResponse is the page of users returned to admins.
type UserListResponse struct {
	Users      []models.User         `json:"users"`
	Pagination repository.Pagination `json:"pagination"`
}

// UpdateUserRequest changes the caller's own profile. Only the fields that
// are set are applied.
type UpdateUserRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
	Password       *string `json:"password" validate:"omitempty,password"`
}

func NewUsersHandler(userRepo *repository.UserRepository) *UsersHandler {
	return &UsersHandler{
		userRepo: userRepo,
	}
}

// ListUsers returns a page of users. Admin only.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	page, err := pageFromQuery(c, defaultUserLimit)
	if err != nil {
		return err
	}

	users, total, err := h.userRepo.ListUsers(c.UserContext(), page)
	if err != nil {
		return apperr.Internal("Failed to fetch users", err)
	}
	return ok(c, "Users fetched successfully", UserListResponse{
		Users:      users,
		Pagination: page.Paginate(total),
	})
}

// GetUser returns a user by id. Callers may only read their own record.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	if id != p.UserID {
		return apperr.Forbidden("Forbidden")
	}

	user, err := h.userRepo.GetUserByID(c.UserContext(), id)
	if err != nil {
		return apperr.Internal("Failed to fetch user", err)
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}
	return ok(c, "User fetched successfully", user)
}

func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var input UpdateUserRequest
	if err := bind(c, &input); err != nil {
		return err
	}

	user, err := h.userRepo.GetUserByID(c.UserContext(), p.UserID)
	if err != nil {
		return apperr.Internal("Failed to update user", err)
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = models.NormalizeEmail(*input.Email)
	}
	if input.ProfilePicture != nil {
		user.ProfilePicture = *input.ProfilePicture
	}
	if input.Password != nil {
		user.SetPassword(*input.Password)
	}

	if err := h.userRepo.UpdateUser(c.UserContext(), user); err != nil {
		if repository.IsDuplicate(err) {
			return apperr.Conflict("Email already taken")
		}
		return apperr.Internal("Failed to update user", err)
	}
	log.Info().Str("user_id", user.ID).Msg("User profile updated")
	return ok(c, "User updated successfully", user)
}

// DeleteMe removes the caller's account and token records.
func (h *UsersHandler) DeleteMe(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.userRepo.DeleteUser(c.UserContext(), p.UserID); err != nil {
		return apperr.Internal("Failed to delete user", err)
	}
	log.Info().Str("user_id", p.UserID).Msg("User account deleted")
	return ok(c, "User deleted successfully", nil)
}

func pageFromQuery(c *fiber.Ctx, defaultLimit int) (repository.Page, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return repository.Page{}, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return repository.Page{}, err
	}
	return repository.NewPage(page, limit, defaultLimit), nil
}
