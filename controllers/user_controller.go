package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/XdebronneX/backend-TeamPOOR/middleware"
	"github.com/XdebronneX/backend-TeamPOOR/services"
)

// UserController handles account, session and notification endpoints.
type UserController struct {
	users         *services.UserService
	cookieExpires time.Duration
	secureCookies bool
}

func NewUserController(users *services.UserService, cookieExpires time.Duration, secureCookies bool) *UserController {
	return &UserController{users: users, cookieExpires: cookieExpires, secureCookies: secureCookies}
}

// Register handles POST /register.
func (uc *UserController) Register(ctx *gin.Context) {
	var input services.RegisterInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	user, err := uc.users.Register(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Email sent to: %s", user.Email),
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login, setting the HTTP-only session cookie.
func (uc *UserController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	result, err := uc.users.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.SetCookie("token", result.Token, int(uc.cookieExpires.Seconds()), "/", "", uc.secureCookies, true)
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    result.User,
	})
}

// Logout handles GET /logout by clearing the session cookie.
func (uc *UserController) Logout(ctx *gin.Context) {
	ctx.SetCookie("token", "", -1, "/", "", uc.secureCookies, true)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// VerifyEmail handles GET /verify/account/:id/:token (public link from
// the verification mail).
func (uc *UserController) VerifyEmail(ctx *gin.Context) {
	if err := uc.users.VerifyEmail(ctx.Request.Context(), ctx.Param("id"), ctx.Param("token")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
}

// Profile handles GET /me.
func (uc *UserController) Profile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	profile, err := uc.users.Profile(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
}

// UpdateProfile handles PUT /me/update.
func (uc *UserController) UpdateProfile(ctx *gin.Context) {
	var input services.UpdateProfileInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	user := middleware.CurrentUser(ctx)
	updated, err := uc.users.UpdateProfile(ctx.Request.Context(), user.ID, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": updated})
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
}

// UpdatePassword handles PUT /password/update.
func (uc *UserController) UpdatePassword(ctx *gin.Context) {
	var req updatePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	user := middleware.CurrentUser(ctx)
	result, err := uc.users.UpdatePassword(ctx.Request.Context(), user.ID, req.OldPassword, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.SetCookie("token", result.Token, int(uc.cookieExpires.Seconds()), "/", "", uc.secureCookies, true)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "token": result.Token, "user": result.User})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword handles POST /password/forgot.
func (uc *UserController) ForgotPassword(ctx *gin.Context) {
	var req forgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	message, err := uc.users.ForgotPassword(ctx.Request.Context(), req.Email)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ResetPassword handles PUT /password/reset/:token.
func (uc *UserController) ResetPassword(ctx *gin.Context) {
	var req resetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	if err := uc.users.ResetPassword(ctx.Request.Context(), ctx.Param("token"), req.Password, req.ConfirmPassword); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

// ---- Admin endpoints ----

// ListUsers handles GET /admin/users.
func (uc *UserController) ListUsers(ctx *gin.Context) {
	users, err := uc.users.ListUsers(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// ListSuppliers handles GET /admin/suppliers.
func (uc *UserController) ListSuppliers(ctx *gin.Context) {
	suppliers, err := uc.users.ListSuppliers(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "suppliers": suppliers})
}

// ListMechanics handles GET /secretary/mechanics.
func (uc *UserController) ListMechanics(ctx *gin.Context) {
	mechanics, err := uc.users.ListMechanics(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "mechanics": mechanics})
}

// GetUser handles GET /admin/user/:id.
func (uc *UserController) GetUser(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": fmt.Sprintf("User not found with id: %s", ctx.Param("id"))})
		return
	}
	user, svcErr := uc.users.GetUser(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateUser handles PUT /admin/user/:id.
func (uc *UserController) UpdateUser(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": fmt.Sprintf("User not found with id: %s", ctx.Param("id"))})
		return
	}

	var input services.AdminUpdateUserInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	user, svcErr := uc.users.AdminUpdateUser(ctx.Request.Context(), id, input)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// DeleteUser handles DELETE /admin/user/:id.
func (uc *UserController) DeleteUser(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": fmt.Sprintf("User not found with id: %s", ctx.Param("id"))})
		return
	}
	if svcErr := uc.users.DeleteUser(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}

// ---- Notifications ----

// UnreadNotifications handles GET /me/notifications/unread.
func (uc *UserController) UnreadNotifications(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	list, err := uc.users.UnreadNotifications(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "notifications": list})
}

// ReadNotification handles PUT /me/notifications/:id/read. Reading one
// marks all of the owner's notifications read.
func (uc *UserController) ReadNotification(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
		return
	}
	list, svcErr := uc.users.ReadNotification(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "notifications": list})
}
