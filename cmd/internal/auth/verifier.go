package auth

import (
	"context"
	"errors"
	"fmt"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"lifemate/cmd/internal/utils"
	"slices"
)

var ErrInvalidToken = errors.New("invalid token")

// Verifier checks bearer tokens and extracts the subject.
type Verifier struct {
	keyfunc jwt.Keyfunc
	opts    []jwt.ParserOption
	// token_use values accepted; empty accepts any
	tokenUses map[string]struct{}
	// app client the token must be issued for; empty skips the check
	clientID string
}

// NewHMACVerifier accepts HS256 tokens signed with secret.
func NewHMACVerifier(secret []byte) *Verifier {
	return &Verifier{
		keyfunc: func(*jwt.Token) (any, error) { return secret, nil },
		opts:    []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})},
	}
}

// NewCognitoVerifier accepts RS256 ID and access tokens that the user pool
// issued to clientID. The key set is refreshed in the background until ctx
// is done.
func NewCognitoVerifier(ctx context.Context, region, userPoolID, clientID string) (*Verifier, error) {
	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
	return newJWKSVerifier(ctx, issuer+"/.well-known/jwks.json", issuer, clientID)
}

func newJWKSVerifier(ctx context.Context, jwksURL, issuer, clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("cognito client id is required")
	}
	keys, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to load key set %s: %w", jwksURL, err)
	}
	return &Verifier{
		keyfunc: keys.Keyfunc,
		opts: []jwt.ParserOption{
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		},
		tokenUses: map[string]struct{}{"id": {}, "access": {}},
		clientID:  clientID,
	}, nil
}

func (v *Verifier) Verify(raw string) (*utils.TokenData, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, v.keyfunc, v.opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	use, _ := claims["token_use"].(string)
	if v.tokenUses != nil {
		if _, ok := v.tokenUses[use]; !ok {
			return nil, fmt.Errorf("%w: unexpected token_use %q", ErrInvalidToken, use)
		}
	}
	if v.clientID != "" && !issuedFor(claims, use, v.clientID) {
		return nil, fmt.Errorf("%w: issued for another client", ErrInvalidToken)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)
	return &utils.TokenData{Sub: sub, Email: email}, nil
}

// issuedFor checks the client of a Cognito token: ID tokens carry it in
// "aud", access tokens in "client_id".
func issuedFor(claims jwt.MapClaims, use, clientID string) bool {
	if use == "access" {
		id, _ := claims["client_id"].(string)
		return id == clientID
	}
	aud, err := claims.GetAudience()
	if err != nil {
		return false
	}
	return slices.Contains(aud, clientID)
}
