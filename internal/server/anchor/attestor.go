package anchor

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Attestor produces the gateway's proof that it processed a record hash.
type Attestor interface {
	Sign(recordHash string) (string, error)
}

// Claims binds a record hash into the attestor token.
type Claims struct {
	jwt.RegisteredClaims
	RecordHash string `json:"recordHash"`
}

// JWTAttestor signs record hashes as HS256 JWTs. The token is opaque to the
// rest of the pipeline; anyone holding the gateway secret can later confirm
// the gateway attested to a given hash at a given time.
type JWTAttestor struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTAttestor(secret []byte, issuer string) *JWTAttestor {
	return &JWTAttestor{secret: secret, issuer: issuer, now: time.Now}
}

func (a *JWTAttestor) Sign(recordHash string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   a.issuer,
			IssuedAt: jwt.NewNumericDate(a.now()),
		},
		RecordHash: recordHash,
	})
	return token.SignedString(a.secret)
}

// VerifyAttestation parses an attestor token and returns the record hash it
// covers. Used by audit tooling and tests.
func VerifyAttestation(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	return claims.RecordHash, nil
}
