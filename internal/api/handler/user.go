package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-ticket-booking/internal/application"
	"github.com/sanosuguru/go-event-ticket-booking/internal/domain/user"
)

type UserHandler struct {
	service UserServiceInterface
}

func NewUserHandler(s UserServiceInterface) *UserHandler {
	return &UserHandler{service: s}
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

type UpdateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"required,oneof=ADMIN USER"`
}

// UserResponse はユーザー情報のレスポンス
// パスワードハッシュは含めない
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID: u.ID, Email: u.Email, Name: u.Name,
		Role: string(u.Role), CreatedAt: u.CreatedAt,
	}
}

// Create godoc
// @Summary ユーザーを作成
// @Description ユーザーを作成します（管理者のみ）
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "ユーザー情報"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "メールアドレス重複"
// @Router /admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	role := user.RoleUser
	if req.Role != "" {
		role = user.Role(req.Role)
	}
	u, err := h.service.CreateUser(c.Request().Context(), application.CreateUserInput{
		Email: req.Email, Name: req.Name, Password: req.Password, Role: role,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

// GetByID godoc
// @Summary ユーザーを取得
// @Description 指定IDのユーザーを取得します（管理者のみ）
// @Tags users
// @Produce json
// @Param id path string true "ユーザーID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	u, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return internalError(err, "ユーザー取得に失敗しました")
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// List godoc
// @Summary ユーザー一覧を取得
// @Description ユーザー一覧を取得します（管理者のみ）
// @Tags users
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} UserResponse
// @Router /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	users, err := h.service.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return internalError(err, "ユーザー一覧取得に失敗しました")
	}
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary ユーザーを更新
// @Description ユーザー情報を更新します（管理者のみ）
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ユーザーID"
// @Param request body UpdateUserRequest true "ユーザー情報"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	u, err := h.service.UpdateUser(c.Request().Context(), application.UpdateUserInput{
		ID: id, Email: req.Email, Name: req.Name, Role: user.Role(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, user.ErrEmailAlreadyExists):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Delete godoc
// @Summary ユーザーを削除
// @Description ユーザーを削除します（管理者のみ）
// @Tags users
// @Produce json
// @Param id path string true "ユーザーID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.DeleteUser(c.Request().Context(), id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return internalError(err, "ユーザー削除に失敗しました")
	}
	return c.NoContent(http.StatusNoContent)
}
