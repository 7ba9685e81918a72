package handlers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"elbuensabor/internal/logging"
	"elbuensabor/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func signAccessToken(customer models.Customer, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"customerId": customer.ID.Hex(),
		"role":       customer.Role,
		"email":      customer.Email,
		"exp":        time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func newRefreshToken() (raw, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(raw))
	return raw, hex.EncodeToString(sum[:]), nil
}

func storeRefreshToken(ctx context.Context, db *mongo.Database, customerID primitive.ObjectID, hash string, ttl time.Duration) error {
	_, err := db.Collection("refresh_tokens").InsertOne(ctx, models.RefreshToken{
		CustomerID: customerID,
		TokenHash:  hash,
		ExpiresAt:  time.Now().Add(ttl),
		CreatedAt:  time.Now(),
	})
	return err
}

func issueTokens(ctx context.Context, db *mongo.Database, customer models.Customer, secret string, accessTTL, refreshTTL time.Duration) (AuthTokens, error) {
	access, err := signAccessToken(customer, secret, accessTTL)
	if err != nil {
		return AuthTokens{}, err
	}

	raw, hash, err := newRefreshToken()
	if err != nil {
		return AuthTokens{}, err
	}
	if err := storeRefreshToken(ctx, db, customer.ID, hash, refreshTTL); err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  access,
		RefreshToken: raw,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

func Register(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			respondWithError(c, http.StatusBadRequest, route, "email and password are required")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "hash error")
			return
		}

		customer := models.Customer{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			Phone:        strings.TrimSpace(req.Phone),
			PasswordHash: string(hash),
			Role:         "customer",
			Addresses:    []models.Address{},
			IsActive:     true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("customers").InsertOne(ctx, customer)
		if mongo.IsDuplicateKeyError(err) {
			respondWithError(c, http.StatusConflict, route, "email already registered")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			customer.ID = id
		}

		tokens, err := issueTokens(ctx, db, customer, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		logging.From(c).Info("customer registered", "customerId", customer.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"customer": customer,
			"tokens":   tokens,
		})
	}
}

func Login(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.Customer
		err := db.Collection("customers").FindOne(ctx, bson.M{
			"email":    email,
			"isActive": bson.M{"$ne": false},
		}).Decode(&customer)
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		tokens, err := issueTokens(ctx, db, customer, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"customer": customer,
			"tokens":   tokens,
		})
	}
}

func Refresh(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/refresh"
		defer handlePanic(c, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		sum := sha256.Sum256([]byte(strings.TrimSpace(req.RefreshToken)))
		hash := hex.EncodeToString(sum[:])

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var stored models.RefreshToken
		err := db.Collection("refresh_tokens").FindOne(ctx, bson.M{
			"tokenHash": hash,
			"revoked":   bson.M{"$ne": true},
			"expiresAt": bson.M{"$gt": time.Now()},
		}).Decode(&stored)
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid refresh token")
			return
		}

		var customer models.Customer
		err = db.Collection("customers").FindOne(ctx, bson.M{"_id": stored.CustomerID}).Decode(&customer)
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid refresh token")
			return
		}

		// Rotate: revoke the presented token before issuing the next one.
		_, err = db.Collection("refresh_tokens").UpdateOne(ctx,
			bson.M{"_id": stored.ID},
			bson.M{"$set": bson.M{"revoked": true}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		tokens, err := issueTokens(ctx, db, customer, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{"tokens": tokens})
	}
}

func Logout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/logout"
		defer handlePanic(c, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		sum := sha256.Sum256([]byte(strings.TrimSpace(req.RefreshToken)))
		hash := hex.EncodeToString(sum[:])

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err := db.Collection("refresh_tokens").UpdateOne(ctx,
			bson.M{"tokenHash": hash},
			bson.M{"$set": bson.M{"revoked": true}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"
		defer handlePanic(c, route)

		customerID, ok := c.MustGet("customerId").(primitive.ObjectID)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.Customer
		err := db.Collection("customers").FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "customer not found")
			return
		}

		c.JSON(http.StatusOK, customer)
	}
}
