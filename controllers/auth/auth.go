package authController

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
)

// issueRefreshToken creates and stores a new refresh token for the user
func issueRefreshToken(user *models.User) (*models.RefreshToken, error) {
	token := models.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		UserEmail: user.Email,
		ExpiresAt: time.Now().AddDate(0, 0, config.AppConfig.RefreshTokenDays),
	}
	if err := database.Database.Db.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Signup registers a new student account
func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Mobile:   reqData.Mobile,
		Password: string(hashedPassword),
		Role:     "STUDENT",
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	// Clean Response
	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

// Login authenticates a user and returns access + refresh tokens
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if !user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Account is deactivated!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	accessToken, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
	}

	refreshToken, err := issueRefreshToken(&user)
	if err != nil {
		log.Printf("Error issuing refresh token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken.Token,
		"expires_at":    refreshToken.ExpiresAt,
	})
}

// Refresh exchanges a valid refresh token for a new token pair
func Refresh(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRefresh").(*struct {
		RefreshToken string `json:"refresh_token"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var stored models.RefreshToken
	if err := db.Where("token = ? AND is_deleted = ?", reqData.RefreshToken, false).First(&stored).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid refresh token!", nil)
	}

	if time.Now().After(stored.ExpiresAt) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Refresh token has expired!", nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", stored.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	accessToken, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh token!", nil)
	}

	// Rotate: retire the used token and issue a new one
	db.Model(&stored).Update("is_deleted", true)

	newToken, err := issueRefreshToken(&user)
	if err != nil {
		log.Printf("Error issuing refresh token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token refreshed!", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": newToken.Token,
		"expires_at":    newToken.ExpiresAt,
	})
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

// UpdateProfile updates the authenticated user's name and mobile
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Name   string `json:"name"`
		Mobile string `json:"mobile"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	updates := map[string]any{}
	if reqData.Name != "" {
		updates["name"] = reqData.Name
	}
	if reqData.Mobile != "" {
		updates["mobile"] = reqData.Mobile
	}

	if len(updates) > 0 {
		if err := database.Database.Db.Model(&user).Updates(updates).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
		}
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}
