package linking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-welfare/internal/employee"
	linkingerrors "go-welfare/internal/linking/errors"
	"go-welfare/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	authorizeEndpoint = "https://access.line.me/oauth2/v2.1/authorize"
	tokenEndpoint     = "https://api.line.me/oauth2/v2.1/token"
	profileEndpoint   = "https://api.line.me/v2/profile"

	statePurpose = "line_link"
	stateTTL     = 10 * time.Minute
)

//go:generate mockgen -source=linking_service.go -destination=mock/linking_service_mock.go -package=mock
type Service interface {
	// AuthorizeURL builds the LINE Login consent URL carrying a signed state
	// that pins the link to the requesting employee.
	AuthorizeURL(employeeID, companyID string) (AuthorizeResponse, error)

	// CompleteLink verifies the state, exchanges the code and stores the LINE
	// user id on the employee row.
	CompleteLink(ctx context.Context, req CallbackRequest) (LinkStatusResponse, error)

	Unlink(ctx context.Context, companyID, employeeID string) error
	Status(ctx context.Context, companyID, employeeID string) (LinkStatusResponse, error)
}

type service struct {
	cfg          config.LineConfig
	jwtSecret    []byte
	employeeRepo employee.Repository
	httpClient   *http.Client
	logger       *zap.Logger
}

func NewService(
	cfg config.LineConfig,
	jwtSecret []byte,
	employeeRepo employee.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("linking.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("linking.service")
	}
	timeout := cfg.APITimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &service{
		cfg:          cfg,
		jwtSecret:    jwtSecret,
		employeeRepo: employeeRepo,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       l,
	}
}

func (s *service) AuthorizeURL(employeeID, companyID string) (AuthorizeResponse, error) {
	if s.cfg.ChannelID == "" || s.cfg.RedirectURL == "" {
		return AuthorizeResponse{}, linkingerrors.ErrLinkingDisabled
	}

	state, err := s.signState(employeeID, companyID)
	if err != nil {
		return AuthorizeResponse{}, err
	}

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", s.cfg.ChannelID)
	q.Set("redirect_uri", s.cfg.RedirectURL)
	q.Set("state", state)
	q.Set("scope", "profile openid")

	return AuthorizeResponse{AuthorizeURL: authorizeEndpoint + "?" + q.Encode()}, nil
}

func (s *service) CompleteLink(ctx context.Context, req CallbackRequest) (LinkStatusResponse, error) {
	employeeID, companyID, err := s.verifyState(req.State)
	if err != nil {
		return LinkStatusResponse{}, linkingerrors.ErrInvalidState
	}

	accessToken, err := s.exchangeCode(ctx, req.Code)
	if err != nil {
		s.logger.Warn("line code exchange failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return LinkStatusResponse{}, linkingerrors.ErrExchangeFailed
	}

	lineUserID, displayName, err := s.fetchProfile(ctx, accessToken)
	if err != nil {
		s.logger.Warn("line profile fetch failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return LinkStatusResponse{}, linkingerrors.ErrProfileFailed
	}

	if err := s.employeeRepo.SetLineUserID(ctx, companyID, employeeID, &lineUserID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return LinkStatusResponse{}, linkingerrors.ErrAlreadyLinked
		}
		return LinkStatusResponse{}, err
	}

	s.logger.Info("line account linked",
		zap.String("employee_id", employeeID),
	)
	return LinkStatusResponse{Linked: true, DisplayName: displayName}, nil
}

func (s *service) Unlink(ctx context.Context, companyID, employeeID string) error {
	empl, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return err
	}
	if empl.LineUserID == nil {
		return linkingerrors.ErrNotLinked
	}

	if err := s.employeeRepo.SetLineUserID(ctx, companyID, employeeID, nil); err != nil {
		return err
	}

	s.logger.Info("line account unlinked", zap.String("employee_id", employeeID))
	return nil
}

func (s *service) Status(ctx context.Context, companyID, employeeID string) (LinkStatusResponse, error) {
	empl, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return LinkStatusResponse{}, err
	}
	return LinkStatusResponse{Linked: empl.LineUserID != nil}, nil
}

func (s *service) signState(employeeID, companyID string) (string, error) {
	claims := jwt.MapClaims{
		"purpose":     statePurpose,
		"employee_id": employeeID,
		"company_id":  companyID,
		"exp":         time.Now().Add(stateTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *service) verifyState(state string) (employeeID, companyID string, err error) {
	token, err := jwt.Parse(state, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("parse state: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("state claims malformed")
	}
	if purpose, _ := claims["purpose"].(string); purpose != statePurpose {
		return "", "", fmt.Errorf("state purpose mismatch")
	}

	employeeID, _ = claims["employee_id"].(string)
	companyID, _ = claims["company_id"].(string)
	if employeeID == "" || companyID == "" {
		return "", "", fmt.Errorf("state subject missing")
	}
	return employeeID, companyID, nil
}

func (s *service) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.cfg.RedirectURL)
	form.Set("client_id", s.cfg.ChannelID)
	form.Set("client_secret", s.cfg.ChannelSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d", res.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return body.AccessToken, nil
}

func (s *service) fetchProfile(ctx context.Context, accessToken string) (userID, displayName string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileEndpoint, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("profile endpoint returned %d", res.StatusCode)
	}

	var body struct {
		UserID      string `json:"userId"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", "", err
	}
	if body.UserID == "" {
		return "", "", fmt.Errorf("profile response missing userId")
	}
	return body.UserID, body.DisplayName, nil
}
