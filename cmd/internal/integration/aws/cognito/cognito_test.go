package cognitoclient

import (
	"context"
	"errors"
	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"testing"
)

type fakeIDP struct {
	signUp      *cip.SignUpInput
	initiate    *cip.InitiateAuthInput
	authResult  *types.AuthenticationResultType
	deletedUser string
	signedOut   string
	err         error
}

func (f *fakeIDP) SignUp(_ context.Context, in *cip.SignUpInput, _ ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	f.signUp = in
	if f.err != nil {
		return nil, f.err
	}
	return &cip.SignUpOutput{UserSub: aws.String("sub-123")}, nil
}

func (f *fakeIDP) ConfirmSignUp(_ context.Context, _ *cip.ConfirmSignUpInput, _ ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error) {
	return &cip.ConfirmSignUpOutput{}, f.err
}

func (f *fakeIDP) InitiateAuth(_ context.Context, in *cip.InitiateAuthInput, _ ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	f.initiate = in
	if f.err != nil {
		return nil, f.err
	}
	return &cip.InitiateAuthOutput{AuthenticationResult: f.authResult}, nil
}

func (f *fakeIDP) GlobalSignOut(_ context.Context, in *cip.GlobalSignOutInput, _ ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error) {
	f.signedOut = aws.ToString(in.AccessToken)
	return &cip.GlobalSignOutOutput{}, f.err
}

func (f *fakeIDP) AdminDeleteUser(_ context.Context, in *cip.AdminDeleteUserInput, _ ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error) {
	f.deletedUser = aws.ToString(in.Username)
	return &cip.AdminDeleteUserOutput{}, f.err
}

func TestSignUpReturnsSub(t *testing.T) {
	idp := &fakeIDP{}
	client := &Client{idp: idp, settings: Settings{ClientID: "client"}}

	sub, err := client.SignUp(context.Background(), &User{Email: "anna@example.com", Password: "Secret#123"})
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if sub != "sub-123" {
		t.Errorf("expected sub-123, got %s", sub)
	}
	if idp.signUp.SecretHash != nil {
		t.Error("expected no secret hash without client secret")
	}
	if len(idp.signUp.UserAttributes) != 1 || aws.ToString(idp.signUp.UserAttributes[0].Value) != "anna@example.com" {
		t.Errorf("expected email attribute, got %+v", idp.signUp.UserAttributes)
	}
}

func TestSignInWithSecretHash(t *testing.T) {
	idp := &fakeIDP{authResult: &types.AuthenticationResultType{
		AccessToken: aws.String("access"),
		IdToken:     aws.String("id"),
		ExpiresIn:   3600,
	}}
	client := &Client{idp: idp, settings: Settings{ClientID: "client", ClientSecret: "secret"}}

	auth, err := client.SignIn(context.Background(), &UserLogin{Email: "anna@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if auth.AccessToken != "access" || auth.IDToken != "id" || auth.ExpiresIn != 3600 {
		t.Errorf("unexpected auth %+v", auth)
	}
	if idp.initiate.AuthFlow != types.AuthFlowTypeUserPasswordAuth {
		t.Errorf("unexpected auth flow %s", idp.initiate.AuthFlow)
	}
	if idp.initiate.AuthParameters["SECRET_HASH"] == "" {
		t.Error("expected secret hash parameter")
	}
}

func TestSignInWithoutResult(t *testing.T) {
	client := &Client{idp: &fakeIDP{}, settings: Settings{ClientID: "client"}}
	if _, err := client.SignIn(context.Background(), &UserLogin{Email: "a", Password: "b"}); !errors.Is(err, ErrNoAuthResult) {
		t.Errorf("expected ErrNoAuthResult, got %v", err)
	}
}

func TestSignOutAndDelete(t *testing.T) {
	idp := &fakeIDP{}
	client := &Client{idp: idp, settings: Settings{UserPoolID: "pool"}}
	ctx := context.Background()

	if err := client.SignOut(ctx, "access"); err != nil || idp.signedOut != "access" {
		t.Errorf("SignOut: %v, token %q", err, idp.signedOut)
	}
	if err := client.AdminDeleteUser(ctx, "anna@example.com"); err != nil || idp.deletedUser != "anna@example.com" {
		t.Errorf("AdminDeleteUser: %v, user %q", err, idp.deletedUser)
	}
}

func TestSecretHashIsStable(t *testing.T) {
	client := &Client{settings: Settings{ClientID: "client", ClientSecret: "secret"}}
	a := client.secretHash("anna@example.com")
	b := client.secretHash("anna@example.com")
	c := client.secretHash("ben@example.com")
	if *a != *b {
		t.Error("expected the same hash for the same user")
	}
	if *a == *c {
		t.Error("expected different hashes for different users")
	}
}
