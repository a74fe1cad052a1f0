package service

import (
	"context"
	"errors"
	"github.com/aws/smithy-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/domain/entity"
	cognitoclient "lifemate/cmd/internal/integration/aws/cognito"
	"lifemate/cmd/internal/utils"
	"lifemate/cmd/internal/utils/apierror"
)

type UserRepository interface {
	FindBySub(sub string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type ConfirmSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=1,max=6,nospaces"`
}

type LogoutRequest struct {
	AccessToken string `json:"access_token" validate:"required,nospaces"`
}

type UserResponse struct {
	ID            int    `json:"id"`
	UID           string `json:"uid"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type UserLoginResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	ExpiresIn   int32  `json:"expires_in"`
}

type DefaultUserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Cognito  cognitoclient.CognitoInterface
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, cogClient cognitoclient.CognitoInterface) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Validate: validate, Cognito: cogClient}
}

// GetMe returns the account behind the verified token.
func (u *DefaultUserService) GetMe(sub string) (*UserResponse, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindBySub(sub)
	if err != nil {
		log.Errorf("failed to find user (%s) by sub: %v", sub, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}
	return toUserResponse(user), nil
}

// CreateUser creates a new user on Cognito (as well as in our database),
// and sends a verification code to the user's email address.
func (u *DefaultUserService) CreateUser(ctx context.Context, req *CreateUserRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return apierror.InternalServerError
	}

	if found {
		return apierror.UserAlreadyExistsError
	}

	cogUser := &cognitoclient.User{Email: req.Email, Password: req.Password}
	sub, apierr, revert := handleUserSignup(ctx, u.Cognito, cogUser)
	if apierr != nil {
		return apierr
	}

	now := utils.NowUTC()
	user := &entity.User{
		SubUUID:       sub,
		Username:      req.Username,
		Email:         req.Email,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = u.UserRepo.Save(user)
	if err != nil {
		revert()
		log.Errorf("failed to create user: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *DefaultUserService) Login(ctx context.Context, req *UserLoginRequest) (*UserLoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.IDPUserNotFoundError
	}

	credentials := &cognitoclient.UserLogin{
		Email:    req.Email,
		Password: req.Password,
	}

	auth, apierr := handleUserSignin(ctx, u.Cognito, credentials)
	if apierr != nil {
		return nil, apierr
	}
	return &UserLoginResponse{AccessToken: auth.AccessToken, IDToken: auth.IDToken, ExpiresIn: auth.ExpiresIn}, nil
}

func (u *DefaultUserService) ConfirmSignup(ctx context.Context, req *ConfirmSignupRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return apierror.InternalServerError
	}

	if user == nil {
		return apierror.IDPUserNotFoundError
	}

	if user.EmailVerified {
		return apierror.UserAlreadyConfirmedError
	}

	confirms := &cognitoclient.UserConfirmation{
		Email: req.Email,
		Code:  req.Code,
	}

	apierr := handleSignupConfirmation(ctx, u.Cognito, confirms)
	if apierr != nil {
		return apierr
	}

	user.EmailVerified = true
	user.UpdatedAt = utils.NowUTC()
	err = u.UserRepo.Save(user)
	if err != nil {
		log.Errorf("failed to update user (%d) verified status: %v", user.ID, err)
	}
	return nil
}

// Logout revokes every token Cognito issued for the session of accessToken.
func (u *DefaultUserService) Logout(ctx context.Context, req *LogoutRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	err := u.Cognito.SignOut(ctx, req.AccessToken)
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotAuthorizedException" {
		return apierror.InvalidAuthTokenError
	}

	log.Errorf("failed to sign out: %v", err)
	return apierror.InternalServerError
}

func handleUserSignup(ctx context.Context, cogClient cognitoclient.CognitoInterface, req *cognitoclient.User) (string, apierror.ErrorResponse, func()) {
	revert := func() {
		if err := cogClient.AdminDeleteUser(context.WithoutCancel(ctx), req.Email); err != nil {
			log.Errorf("failed to revert signup of %s: %v", req.Email, err)
		}
	}

	sub, err := cogClient.SignUp(ctx, req)
	if err == nil {
		return sub, nil, revert
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidPasswordException":
			return "", apierror.IDPInvalidPasswordError, revert
		case "UsernameExistsException":
			return "", apierror.IDPExistingEmailError, revert
		default:
			log.Errorf("signup failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return "", apierror.InternalServerError, revert
		}
	}

	log.Errorf("failed to signup user (%s): %v", req.Email, err)
	return "", apierror.InternalServerError, revert
}

func handleUserSignin(ctx context.Context, cogClient cognitoclient.CognitoInterface, req *cognitoclient.UserLogin) (*cognitoclient.AuthCreate, apierror.ErrorResponse) {
	auth, err := cogClient.SignIn(ctx, req)
	if err == nil {
		return auth, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "UserNotFoundException":
			return nil, apierror.IDPUserNotFoundError
		case "UserNotConfirmedException":
			return nil, apierror.IDPUserNotConfirmedError
		case "NotAuthorizedException":
			return nil, apierror.IDPCredentialsMismatchError
		default:
			log.Errorf("signin failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return nil, apierror.InternalServerError
		}
	}

	log.Errorf("failed to signin user (%s): %v", req.Email, err)
	return nil, apierror.InternalServerError
}

func handleSignupConfirmation(ctx context.Context, cogClient cognitoclient.CognitoInterface, req *cognitoclient.UserConfirmation) apierror.ErrorResponse {
	err := cogClient.ConfirmAccount(ctx, req)
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "CodeMismatchException":
			return apierror.IDPConfirmCodeMismatchError
		case "ExpiredCodeException":
			return apierror.IDPConfirmCodeExpiredError
		case "UserNotFoundException":
			return apierror.IDPUserNotFoundError
		default:
			log.Errorf("confirmation failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return apierror.InternalServerError
		}
	}

	log.Errorf("failed to confirm user (%s): %v", req.Email, err)
	return apierror.InternalServerError
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		UID:           user.SubUUID,
		Username:      user.Username,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		CreatedAt:     utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:     utils.FormatEpoch(user.UpdatedAt),
	}
}
