package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/arnavshah/room-scheduler-api/pkg/database"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidKeyFormat = errors.New("invalid key format")
	ErrInvalidSignature = errors.New("invalid signature")
)

var jwtAlgorithm = jwt.SigningMethodHS256

// TokenTTL is the lifetime of an admin token.
const TokenTTL = 24 * time.Hour

// bcryptCost is a variable so tests can lower it.
var bcryptCost = 14

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Signer issues and checks admin tokens and HMAC-signed API keys.
type Signer struct {
	jwtSecret    []byte
	masterSecret []byte
	now          func() time.Time
}

// NewSigner creates a signer from the JWT and API master secrets.
func NewSigner(jwtSecret, masterSecret string) *Signer {
	return &Signer{
		jwtSecret:    []byte(jwtSecret),
		masterSecret: []byte(masterSecret),
		now:          time.Now,
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for a user
func (s *Signer) CreateToken(username string) (string, error) {
	now := s.now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken verifies a JWT token
func (s *Signer) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateAPIKey creates a signed API key of the form "<name>.<hex hmac>".
func (s *Signer) GenerateAPIKey(name string) string {
	return name + "." + s.sign(name)
}

// VerifyAPIKey validates an HMAC-signed API key and returns its name.
func (s *Signer) VerifyAPIKey(key string) (string, error) {
	i := strings.LastIndex(key, ".")
	if i <= 0 || i == len(key)-1 {
		return "", ErrInvalidKeyFormat
	}
	name, provided := key[:i], key[i+1:]

	// constant-time comparison
	if !hmac.Equal([]byte(provided), []byte(s.sign(name))) {
		return "", ErrInvalidSignature
	}
	return name, nil
}

func (s *Signer) sign(name string) string {
	h := hmac.New(sha256.New, s.masterSecret)
	h.Write([]byte(name))
	return hex.EncodeToString(h.Sum(nil))
}

// KeyPreview masks a key for listing, keeping its first and last characters.
func KeyPreview(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "..." + key[len(key)-4:]
}

// EnsureAdminExists creates the admin user when the master_users table is empty.
func EnsureAdminExists(db *gorm.DB, username, password string, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&database.MasterUser{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := db.Create(&database.MasterUser{Username: username, PasswordHash: hash}).Error; err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("default admin user created")
	return nil
}

// Authenticate checks an admin's credentials.
func Authenticate(db *gorm.DB, username, password string) (*database.MasterUser, bool) {
	var user database.MasterUser
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, false
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, false
	}
	return &user, true
}
