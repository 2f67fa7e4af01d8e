package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/XdebronneX/backend-TeamPOOR/models"
	"github.com/XdebronneX/backend-TeamPOOR/repository"
)

// UserService implements account registration, authentication, email
// verification, profile management and password recovery.
type UserService struct {
	users         repository.UserRepository
	tokens        repository.VerificationTokenRepository
	notifications repository.NotificationRepository
	issuer        *TokenIssuer
	mailer        *Mailer
	storage       ImageStorage
	frontendURL   string
}

func NewUserService(
	users repository.UserRepository,
	tokens repository.VerificationTokenRepository,
	notifications repository.NotificationRepository,
	issuer *TokenIssuer,
	mailer *Mailer,
	storage ImageStorage,
	frontendURL string,
) *UserService {
	return &UserService{
		users:         users,
		tokens:        tokens,
		notifications: notifications,
		issuer:        issuer,
		mailer:        mailer,
		storage:       storage,
		frontendURL:   frontendURL,
	}
}

// RegisterInput carries the signup form fields.
type RegisterInput struct {
	Firstname string `json:"firstname" binding:"required"`
	Lastname  string `json:"lastname" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone" binding:"required"`
	Gender    string `json:"gender"`
	Avatar    string `json:"avatar"`
}

// randomToken mints a 32-byte hex token for verification and payment
// links.
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Register creates an unverified account and emails its verification link.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, badRequest("Email address already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internal("Failed to register account")
	}
	if _, err := s.users.FindByPhone(ctx, input.Phone); err == nil {
		return nil, badRequest("Phone number already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internal("Failed to register account")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal("Failed to register account")
	}

	user := &models.User{
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		Email:     input.Email,
		Password:  string(hashed),
		Phone:     input.Phone,
		Gender:    input.Gender,
		Role:      models.RoleUser,
	}

	if input.Avatar != "" {
		image, err := s.storage.Upload(ctx, input.Avatar, "avatars")
		if err != nil {
			return nil, badRequest("Invalid avatar image")
		}
		user.Avatar = &image
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, internal("Failed to register account")
	}

	if err := s.issueVerification(ctx, user); err != nil {
		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("email", user.Email))
	}

	return user, nil
}

func (s *UserService) issueVerification(ctx context.Context, user *models.User) error {
	token, err := randomToken()
	if err != nil {
		return err
	}
	if _, err := s.tokens.Upsert(ctx, user.ID, token, time.Now().Add(models.VerificationTokenTTL)); err != nil {
		return err
	}
	return s.mailer.SendVerificationEmail(ctx, user, token)
}

// LoginResult bundles the signed session token with its user.
type LoginResult struct {
	Token string
	User  *models.User
}

// Login authenticates credentials and issues a session token. An
// unverified account gets its verification link reissued when the
// prior token has expired.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, badRequest("Please enter email & password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, internal("Failed to sign in")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, unauthorized("Invalid email or password")
	}

	if !user.Verified {
		token, err := s.tokens.FindByUser(ctx, user.ID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && time.Now().After(token.ExpiresAt)) {
			if err := s.issueVerification(ctx, user); err != nil {
				zap.L().Error("Failed to reissue verification email", zap.Error(err), zap.String("email", user.Email))
			}
			return nil, NewServiceError(http.StatusForbidden, "An email was sent to your account. Please verify first before logging in.")
		}
		return nil, NewServiceError(http.StatusForbidden, "An email was already sent to your account. Please check your email to verify.")
	}

	signed, err := s.issuer.Issue(user)
	if err != nil {
		return nil, internal("Failed to sign in")
	}
	return &LoginResult{Token: signed, User: user}, nil
}

// VerifyEmail consumes an emailed verification link.
func (s *UserService) VerifyEmail(ctx context.Context, userID, token string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return badRequest("Invalid link")
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return badRequest("Invalid link")
	}
	if err != nil {
		return internal("Failed to verify email")
	}

	stored, err := s.tokens.FindByUser(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && stored.Token != token) {
		return badRequest("Invalid link")
	}
	if err != nil {
		return internal("Failed to verify email")
	}
	if time.Now().After(stored.ExpiresAt) {
		return badRequest("Verification link has expired. Please log in to request a new one.")
	}

	if err := s.users.SetVerified(ctx, user.ID); err != nil {
		return internal("Failed to verify email")
	}
	return nil
}

// Profile returns the account for the given id.
func (s *UserService) Profile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, internal("Failed to load profile")
	}
	return user, nil
}

// UpdateProfileInput carries the editable profile fields. Empty fields
// are left untouched.
type UpdateProfileInput struct {
	Firstname  string     `json:"firstname"`
	Lastname   string     `json:"lastname"`
	Phone      string     `json:"phone"`
	Gender     string     `json:"gender"`
	Birthday   *time.Time `json:"birthday"`
	Region     string     `json:"region"`
	Province   string     `json:"province"`
	City       string     `json:"city"`
	Barangay   string     `json:"barangay"`
	PostalCode string     `json:"postalcode"`
	Address    string     `json:"address"`
	Avatar     string     `json:"avatar"`
}

// UpdateProfile applies profile edits. A new avatar replaces the stored
// image; phone changes are checked for uniqueness excluding the user.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, internal("Failed to update profile")
	}

	if input.Phone != "" && input.Phone != user.Phone {
		inUse, err := s.users.PhoneInUseByOther(ctx, input.Phone, user.ID)
		if err != nil {
			return nil, internal("Failed to update profile")
		}
		if inUse {
			return nil, badRequest("Phone number already exists")
		}
		user.Phone = input.Phone
	}

	if input.Firstname != "" {
		user.Firstname = input.Firstname
	}
	if input.Lastname != "" {
		user.Lastname = input.Lastname
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}
	if input.Birthday != nil {
		user.Birthday = input.Birthday
	}
	if input.Region != "" {
		user.Region = input.Region
	}
	if input.Province != "" {
		user.Province = input.Province
	}
	if input.City != "" {
		user.City = input.City
	}
	if input.Barangay != "" {
		user.Barangay = input.Barangay
	}
	if input.PostalCode != "" {
		user.PostalCode = input.PostalCode
	}
	if input.Address != "" {
		user.Address = input.Address
	}

	if input.Avatar != "" {
		if user.Avatar != nil {
			if err := s.storage.Delete(ctx, user.Avatar.PublicID); err != nil {
				zap.L().Warn("Failed to delete previous avatar", zap.Error(err), zap.String("public_id", user.Avatar.PublicID))
			}
		}
		image, err := s.storage.Upload(ctx, input.Avatar, "avatars")
		if err != nil {
			return nil, badRequest("Invalid avatar image")
		}
		user.Avatar = &image
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, internal("Failed to update profile")
	}
	return user, nil
}

// UpdatePassword rotates the password after checking the old one.
func (s *UserService) UpdatePassword(ctx context.Context, id primitive.ObjectID, oldPassword, newPassword string) (*LoginResult, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, internal("Failed to update password")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return nil, badRequest("Old password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal("Failed to update password")
	}
	user.Password = string(hashed)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, internal("Failed to update password")
	}

	signed, err := s.issuer.Issue(user)
	if err != nil {
		return nil, internal("Failed to update password")
	}
	return &LoginResult{Token: signed, User: user}, nil
}

// ForgotPassword mints a reset token, stores its sha256 hash and mails
// the reset link. A mail failure clears the token fields.
func (s *UserService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", notFound("User not found with this email")
	}
	if err != nil {
		return "", internal("Failed to process request")
	}

	token, err := randomToken()
	if err != nil {
		return "", internal("Failed to process request")
	}
	hash := sha256.Sum256([]byte(token))
	expires := time.Now().Add(models.ResetTokenTTL)
	user.ResetPasswordToken = hex.EncodeToString(hash[:])
	user.ResetPasswordExpire = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return "", internal("Failed to process request")
	}

	resetURL := fmt.Sprintf("%s/password/reset/%s", s.frontendURL, token)
	if err := s.mailer.SendPasswordResetEmail(ctx, user, resetURL); err != nil {
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if uerr := s.users.Update(ctx, user); uerr != nil {
			zap.L().Error("Failed to clear reset token", zap.Error(uerr), zap.String("email", user.Email))
		}
		return "", internal("Failed to send reset email")
	}

	return fmt.Sprintf("Email sent to: %s", user.Email), nil
}

// ResetPassword consumes a reset link: the path token is hashed and
// matched against an unexpired stored hash.
func (s *UserService) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if password != confirmPassword {
		return badRequest("Password does not match")
	}

	hash := sha256.Sum256([]byte(token))
	user, err := s.users.FindByResetToken(ctx, hex.EncodeToString(hash[:]), time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return badRequest("Password reset token is invalid or has been expired")
	}
	if err != nil {
		return internal("Failed to reset password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return internal("Failed to reset password")
	}
	user.Password = string(hashed)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil

	if err := s.users.Update(ctx, user); err != nil {
		return internal("Failed to reset password")
	}
	return nil
}

// ---- Admin operations ----

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, internal("Failed to list users")
	}
	return users, nil
}

func (s *UserService) ListSuppliers(ctx context.Context) ([]models.User, error) {
	suppliers, err := s.users.FindByRole(ctx, models.RoleSupplier)
	if err != nil {
		return nil, internal("Failed to list suppliers")
	}
	return suppliers, nil
}

func (s *UserService) ListMechanics(ctx context.Context) ([]models.User, error) {
	mechanics, err := s.users.FindByRole(ctx, models.RoleMechanic)
	if err != nil {
		return nil, internal("Failed to list mechanics")
	}
	return mechanics, nil
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(fmt.Sprintf("User not found with id: %s", id.Hex()))
	}
	if err != nil {
		return nil, internal("Failed to load user")
	}
	return user, nil
}

// AdminUpdateUserInput carries the fields an admin may change.
type AdminUpdateUserInput struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (s *UserService) AdminUpdateUser(ctx context.Context, id primitive.ObjectID, input AdminUpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Firstname != "" {
		user.Firstname = input.Firstname
	}
	if input.Lastname != "" {
		user.Lastname = input.Lastname
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Role != "" {
		role := models.Role(input.Role)
		if !role.Valid() {
			return nil, badRequest("Invalid role")
		}
		user.Role = role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, internal("Failed to update user")
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Avatar != nil {
		if err := s.storage.Delete(ctx, user.Avatar.PublicID); err != nil {
			zap.L().Warn("Failed to delete avatar", zap.Error(err), zap.String("public_id", user.Avatar.PublicID))
		}
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return internal("Failed to delete user")
	}
	return nil
}

// ---- Notifications ----

func (s *UserService) UnreadNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	list, err := s.notifications.FindUnreadByUser(ctx, userID)
	if err != nil {
		return nil, internal("Failed to load notifications")
	}
	return list, nil
}

// ReadNotification marks all of the notification owner's messages read
// and returns the refreshed list.
func (s *UserService) ReadNotification(ctx context.Context, id primitive.ObjectID) ([]models.Notification, error) {
	notification, err := s.notifications.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Notification not found")
	}
	if err != nil {
		return nil, internal("Failed to update notification")
	}

	if err := s.notifications.MarkAllReadForUser(ctx, notification.User); err != nil {
		return nil, internal("Failed to update notification")
	}

	list, err := s.notifications.FindByUser(ctx, notification.User)
	if err != nil {
		return nil, internal("Failed to load notifications")
	}
	return list, nil
}
