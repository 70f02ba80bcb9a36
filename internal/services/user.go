package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"social-feed-backend/internal/config"
	"social-feed-backend/internal/metrics"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserService handles registration, tokens and profiles
type UserService struct {
	users     repository.UserStore
	graph     repository.GraphStore
	content   repository.ContentStore
	jwtSecret string
	jwtTTL    time.Duration
	profile   config.ProfileConfig
	limits    config.ContentConfig
	validator *fieldValidator
	metrics   *metrics.Metrics
	now       clock
}

// NewUserService creates a new user service
func NewUserService(stores repository.Stores, cfg *config.Config, m *metrics.Metrics) *UserService {
	return &UserService{
		users:     stores.Users,
		graph:     stores.Graph,
		content:   stores.Content,
		jwtSecret: cfg.JWT.Secret,
		jwtTTL:    cfg.JWT.TTL,
		profile:   cfg.Profile,
		limits:    cfg.Content,
		validator: newFieldValidator(),
		metrics:   m,
		now:       time.Now,
	}
}

// RegisterRequest represents a request to create a user
type RegisterRequest struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Bio    string `json:"bio"`
}

// RegisterResponse carries the new user and its access token
type RegisterResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(s.jwtTTL).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}

// Register creates a new user and issues its token. Blank name and bio
// fall back to the configured defaults.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (resp *RegisterResponse, err error) {
	defer func() { s.metrics.ObserveWrite("register", err) }()

	handle := strings.TrimSpace(req.Handle)
	name := strings.TrimSpace(req.Name)
	bio := strings.TrimSpace(req.Bio)
	if name == "" {
		name = s.profile.DefaultName
	}
	if bio == "" {
		bio = s.profile.DefaultBio
	}

	if err := s.validator.text("handle", handle, true, s.limits.MaxHandle, "handle"); err != nil {
		return nil, err
	}
	if err := s.validator.text("name", name, false, s.limits.MaxName); err != nil {
		return nil, err
	}
	if err := s.validator.text("bio", bio, false, s.limits.MaxBio); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Handle:    handle,
		Name:      name,
		Bio:       bio,
		CreatedAt: s.now.stamp(),
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return &RegisterResponse{User: user, Token: token}, nil
}

// GetProfile composes a user's public profile with follow counts and the
// latest posts
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.graph.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.graph.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.content.PostsByAuthors(ctx, []string{userID}, models.PageQuery{Limit: s.profile.PostsLimit})
	if err != nil {
		return nil, err
	}
	items := make([]*models.FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, &models.FeedItem{Post: p, AuthorHandle: user.Handle})
	}

	return &models.Profile{
		ID:             user.ID,
		Handle:         user.Handle,
		Name:           user.Name,
		Bio:            user.Bio,
		FollowersCount: followers,
		FollowingCount: following,
		Posts:          items,
	}, nil
}
