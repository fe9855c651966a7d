package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ttahub/goals-lambda/internal/auth"
	"github.com/ttahub/goals-lambda/internal/config"
)

var ErrInvalidAuthCode = errors.New("invalid authorization code")

const tokenDuration = time.Hour * 12

type UserService interface {
	GoogleLogin(ctx context.Context, code string) (*User, string, error)
	GetUser(ctx context.Context) (*User, error)
}

type service struct {
	repo        UserRepository
	oauthConfig *oauth2.Config
}

func NewService(repo UserRepository) UserService {
	return &service{
		repo: repo,
		oauthConfig: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

type googleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *service) GoogleLogin(ctx context.Context, code string) (*User, string, error) {
	log := config.WithContext(ctx)

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		log.WithError(err).Warn("Failed to exchange Google auth code")
		return nil, "", ErrInvalidAuthCode
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		log.WithError(err).Error("Failed to fetch Google user info")
		return nil, "", err
	}

	u := &User{
		Email: info.Email,
		Name:  info.Name,
		Role:  auth.RoleUser,
	}
	if token.RefreshToken != "" {
		encrypted, err := config.Encrypt(token.RefreshToken)
		if err != nil {
			log.WithError(err).Error("Failed to encrypt refresh token")
			return nil, "", err
		}
		u.RefreshToken = encrypted
	}

	if err := s.repo.Upsert(u); err != nil {
		log.WithError(err).Error("Failed to upsert user")
		return nil, "", err
	}

	jwtToken, err := auth.GenerateJWT(u.ID.String(), u.Role, tokenDuration)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT")
		return nil, "", err
	}

	log.WithField("user_id", u.ID).Info("User logged in")
	return u, jwtToken, nil
}

func (s *service) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("userinfo endpoint returned non-200")
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *service) GetUser(ctx context.Context) (*User, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(id)
}
