package members

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ubqurrotul/koperasi-backend/pkg/auth"
	"github.com/ubqurrotul/koperasi-backend/pkg/config"
	"github.com/ubqurrotul/koperasi-backend/pkg/db"
	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
	"github.com/ubqurrotul/koperasi-backend/pkg/security"
)

// Service exposes member account management and login.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Member, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetMember(ctx context.Context, memberID uuid.UUID) (*models.Member, error)
	ListMembers(ctx context.Context, status *enums.MemberStatus) ([]models.Member, error)
	UpdateProfile(ctx context.Context, memberID uuid.UUID, input UpdateProfileInput) (*models.Member, error)
	ChangePassword(ctx context.Context, memberID uuid.UUID, current, next string) error
	SetStatus(ctx context.Context, memberID uuid.UUID, status enums.MemberStatus) (*models.Member, error)
}

// RegisterInput creates a new member account. Role defaults to ordinary.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    *string
	Address  *string
	Role     enums.MemberRole
	JoinDate time.Time
}

// UpdateProfileInput holds optional self-service profile changes.
type UpdateProfileInput struct {
	FullName  *string
	Phone     *string
	Address   *string
	AvatarURL *string
}

// LoginResult pairs the authenticated member with a minted access token.
type LoginResult struct {
	Member      *models.Member `json:"member"`
	AccessToken string         `json:"access_token"`
}

type service struct {
	repo        Repository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// NewService wires a member service with its repository and auth settings.
func NewService(repo Repository, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("member repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, passwordCfg: passwordCfg}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Member, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.FullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if input.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	role := input.Role
	if role == "" {
		role = enums.MemberRoleOrdinary
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", input.Role))
	}
	joinDate := input.JoinDate
	if joinDate.IsZero() {
		joinDate = time.Now()
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		ID:           uuid.New(),
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Address:      input.Address,
		Role:         role,
		Status:       enums.MemberStatusActive,
		JoinDate:     joinDate,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		if db.IsUniqueViolation(err, "members_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, err
	}
	return member, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	member, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if member.Status != enums.MemberStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is inactive")
	}

	ok, err := security.VerifyPassword(password, member.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, time.Now(), auth.AccessTokenPayload{
		MemberID: member.ID,
		Role:     member.Role,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Member: member, AccessToken: token}, nil
}

func (s *service) GetMember(ctx context.Context, memberID uuid.UUID) (*models.Member, error) {
	if memberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	member, err := s.repo.FindByID(ctx, memberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *service) ListMembers(ctx context.Context, status *enums.MemberStatus) ([]models.Member, error) {
	return s.repo.List(ctx, status)
}

func (s *service) UpdateProfile(ctx context.Context, memberID uuid.UUID, input UpdateProfileInput) (*models.Member, error) {
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		if *input.FullName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name must not be empty")
		}
		member.FullName = *input.FullName
	}
	if input.Phone != nil {
		member.Phone = input.Phone
	}
	if input.Address != nil {
		member.Address = input.Address
	}
	if input.AvatarURL != nil {
		member.AvatarURL = input.AvatarURL
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *service) ChangePassword(ctx context.Context, memberID uuid.UUID, current, next string) error {
	if len(next) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(current, member.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(next, s.passwordCfg)
	if err != nil {
		return err
	}
	member.PasswordHash = hash
	return s.repo.Update(ctx, member)
}

// SetStatus flips the account flag. Accounts are never hard-deleted.
func (s *service) SetStatus(ctx context.Context, memberID uuid.UUID, status enums.MemberStatus) (*models.Member, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
	}
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	member.Status = status
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}
