package controllers

import (
	"errors"
	"os"
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/repositories"
	"github.com/clinicdesk/appointment-server/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	patients repositories.PatientRepository
	doctors  repositories.DoctorRepository
	log      *zap.Logger
}

func NewAuthController(patients repositories.PatientRepository, doctors repositories.DoctorRepository, log *zap.Logger) *AuthController {
	return &AuthController{patients: patients, doctors: doctors, log: log}
}

// RegisterPatient handles patient self-registration
func (ctl *AuthController) RegisterPatient(c *fiber.Ctx) error {
	patient := new(models.Patient)

	if err := c.BodyParser(patient); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	if patient.Email == "" || patient.Password == "" || patient.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required fields",
		})
	}

	if _, err := ctl.patients.FindByEmail(c.Context(), patient.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "A patient with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(patient.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to hash password",
		})
	}
	patient.Password = string(hashedPassword)
	patient.Role = models.RolePatient

	if err := ctl.patients.Create(c.Context(), patient); err != nil {
		ctl.log.Error("patient registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create patient",
		})
	}

	patient.Password = ""
	return c.Status(fiber.StatusCreated).JSON(patient)
}

// RegisterDoctor creates a doctor account. Admin only; exposed behind the
// role gate in routes.
func (ctl *AuthController) RegisterDoctor(c *fiber.Ctx) error {
	doctor := new(models.Doctor)

	if err := c.BodyParser(doctor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	if doctor.Email == "" || doctor.Password == "" || doctor.Name == "" || doctor.Specialty == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required fields",
		})
	}

	if _, err := ctl.doctors.FindByEmail(c.Context(), doctor.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "A doctor with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(doctor.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to hash password",
		})
	}
	doctor.Password = string(hashedPassword)

	if err := ctl.doctors.Create(c.Context(), doctor); err != nil {
		ctl.log.Error("doctor registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create doctor",
		})
	}

	doctor.Password = ""
	return c.Status(fiber.StatusCreated).JSON(doctor)
}

// Login authenticates a patient or doctor by email and issues a JWT pair.
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	var (
		id           uint
		name         string
		role         string
		passwordHash string
	)

	patient, err := ctl.patients.FindByEmail(c.Context(), input.Email)
	switch {
	case err == nil:
		id, name, role, passwordHash = patient.ID, patient.Name, patient.Role, patient.Password
	case errors.Is(err, gorm.ErrRecordNotFound):
		doctor, derr := ctl.doctors.FindByEmail(c.Context(), input.Email)
		if derr != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
				Message: "Invalid credentials",
			})
		}
		id, name, role, passwordHash = doctor.ID, doctor.Name, models.RoleDoctor, doctor.Password
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to look up account",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid credentials",
		})
	}

	secret := jwtSecret()

	claims := jwt.MapClaims{
		"id":    id,
		"email": input.Email,
		"role":  role,
		"exp":   time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate token",
		})
	}

	refreshClaims := jwt.MapClaims{
		"id":    id,
		"email": input.Email,
		"role":  role,
		"exp":   time.Now().Add(time.Hour * 24 * 7).Unix(),
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(secret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate refresh token",
		})
	}

	return c.JSON(fiber.Map{
		"token":        tokenString,
		"refreshToken": refreshTokenString,
		"user": fiber.Map{
			"id":    id,
			"name":  name,
			"email": input.Email,
			"role":  role,
		},
	})
}

// RefreshToken generates a new access token using a refresh token
func (ctl *AuthController) RefreshToken(c *fiber.Ctx) error {
	type RefreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	refreshRequest := new(RefreshRequest)
	if err := c.BodyParser(refreshRequest); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	secret := jwtSecret()
	token, err := jwt.Parse(refreshRequest.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid or expired refresh token",
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid token claims",
		})
	}

	newClaims := jwt.MapClaims{
		"id":    claims["id"],
		"email": claims["email"],
		"role":  claims["role"],
		"exp":   time.Now().Add(time.Hour * 24).Unix(),
	}
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims)
	tokenString, err := newToken.SignedString([]byte(secret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": tokenString,
	})
}

func jwtSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}
	return secret
}
