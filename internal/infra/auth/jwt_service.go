package auth

import (
	"time"

	"contacts/config"
	"contacts/internal/domain/service"
	"contacts/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	refreshTokenBytes = 40
	tokenIssuer       = "contacts"
)

// jwtService signs HS256 access tokens and mints opaque refresh tokens.
type jwtService struct {
	accessSecret []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt access secret must be provided")
	}
	if cfg.Auth == nil {
		return nil, errors.New("auth config must be provided")
	}

	return &jwtService{
		accessSecret: []byte(cfg.SecretKey.Access),
		accessTTL:    cfg.Auth.AccessTokenTTL,
		refreshTTL:   cfg.Auth.RefreshTokenTTL,
	}, nil
}

func (s *jwtService) IssuePair(userID uuid.UUID, now time.Time) (*service.TokenPair, error) {
	accessUntil := now.Add(s.accessTTL)
	claims := &service.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessUntil),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign access token")
	}

	refreshToken, err := util.RandomHex(refreshTokenBytes)
	if err != nil {
		return nil, err
	}

	return &service.TokenPair{
		AccessToken:            accessToken,
		RefreshToken:           refreshToken,
		AccessTokenValidUntil:  accessUntil,
		RefreshTokenValidUntil: now.Add(s.refreshTTL),
	}, nil
}

func (s *jwtService) ValidateAccessToken(token string) (*service.Claims, error) {
	claims := &service.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.accessSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, service.ErrTokenExpired
		}

		return nil, errors.Wrap(service.ErrTokenInvalid, err.Error())
	}
	if !parsed.Valid || claims.UserID == uuid.Nil {
		return nil, service.ErrTokenInvalid
	}

	return claims, nil
}

func (s *jwtService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}
