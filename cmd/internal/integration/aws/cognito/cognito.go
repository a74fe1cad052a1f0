package cognitoclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type CognitoInterface interface {
	SignUp(ctx context.Context, user *User) (string, error)
	ConfirmAccount(ctx context.Context, confirmation *UserConfirmation) error
	SignIn(ctx context.Context, login *UserLogin) (*AuthCreate, error)
	SignOut(ctx context.Context, accessToken string) error
	AdminDeleteUser(ctx context.Context, email string) error
}

type User struct {
	Email    string
	Password string
}

type UserLogin struct {
	Email    string
	Password string
}

type UserConfirmation struct {
	Email string
	Code  string
}

type AuthCreate struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int32
}

// identityProvider is the part of the SDK client we call.
type identityProvider interface {
	SignUp(ctx context.Context, in *cip.SignUpInput, opts ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, opts ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, opts ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, in *cip.GlobalSignOutInput, opts ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
	AdminDeleteUser(ctx context.Context, in *cip.AdminDeleteUserInput, opts ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error)
}

type Settings struct {
	Region       string
	UserPoolID   string
	ClientID     string
	ClientSecret string
}

type Client struct {
	idp      identityProvider
	settings Settings
}

var ErrNoAuthResult = errors.New("cognito returned no authentication result")

// InitCognitoClient loads AWS credentials from the default chain.
func InitCognitoClient(ctx context.Context, settings Settings) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(settings.Region))
	if err != nil {
		return nil, err
	}
	return &Client{idp: cip.NewFromConfig(cfg), settings: settings}, nil
}

// SignUp registers the user and returns the Cognito sub.
func (c *Client) SignUp(ctx context.Context, user *User) (string, error) {
	out, err := c.idp.SignUp(ctx, &cip.SignUpInput{
		ClientId:   aws.String(c.settings.ClientID),
		Username:   aws.String(user.Email),
		Password:   aws.String(user.Password),
		SecretHash: c.secretHash(user.Email),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(user.Email)},
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.UserSub), nil
}

func (c *Client) ConfirmAccount(ctx context.Context, confirmation *UserConfirmation) error {
	_, err := c.idp.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(c.settings.ClientID),
		Username:         aws.String(confirmation.Email),
		ConfirmationCode: aws.String(confirmation.Code),
		SecretHash:       c.secretHash(confirmation.Email),
	})
	return err
}

func (c *Client) SignIn(ctx context.Context, login *UserLogin) (*AuthCreate, error) {
	params := map[string]string{
		"USERNAME": login.Email,
		"PASSWORD": login.Password,
	}
	if hash := c.secretHash(login.Email); hash != nil {
		params["SECRET_HASH"] = *hash
	}

	out, err := c.idp.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(c.settings.ClientID),
		AuthParameters: params,
	})
	if err != nil {
		return nil, err
	}
	if out.AuthenticationResult == nil {
		return nil, ErrNoAuthResult
	}

	res := out.AuthenticationResult
	return &AuthCreate{
		AccessToken:  aws.ToString(res.AccessToken),
		IDToken:      aws.ToString(res.IdToken),
		RefreshToken: aws.ToString(res.RefreshToken),
		ExpiresIn:    res.ExpiresIn,
	}, nil
}

// SignOut revokes every token issued for the access token's user.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.idp.GlobalSignOut(ctx, &cip.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	return err
}

func (c *Client) AdminDeleteUser(ctx context.Context, email string) error {
	_, err := c.idp.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(c.settings.UserPoolID),
		Username:   aws.String(email),
	})
	return err
}

// secretHash is only needed for app clients that have a secret.
func (c *Client) secretHash(username string) *string {
	if c.settings.ClientSecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(c.settings.ClientSecret))
	mac.Write([]byte(username + c.settings.ClientID))
	return aws.String(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}
