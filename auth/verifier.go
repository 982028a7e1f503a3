package auth

import (
	"fmt"

	"retro-chat/domain"
	apperrors "retro-chat/errors"
)

// Verifier adapts token validation to the coordinator's credential check.
// It carries no session state: a token either proves an identity or it does
// not. The identity only gates entry; the display name a client announces on
// join is authoritative even when the token carries another one.
type Verifier struct {
	tokens *TokenManager
}

func NewVerifier(tokens *TokenManager) *Verifier {
	return &Verifier{tokens: tokens}
}

func (v *Verifier) Verify(token string) (domain.Identity, error) {
	claims, err := v.tokens.Validate(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	return domain.Identity{DisplayName: claims.Username}, nil
}
