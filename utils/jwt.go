// file: utils/jwt.go
package utils

import (
	"os"
	"time"

	"crazy88/models"

	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() []byte {
	if v := os.Getenv("C88_JWT_SECRET"); v != "" {
		return []byte(v)
	}
	return []byte("a-very-secure-secret-that-should-be-in-config-file")
}

type Claims struct {
	UserID    uint32          `json:"user_id"`
	TeamID    uint32          `json:"team_id"`    // 队伍 Token 专用，后台账号为 0
	SessionID uint32          `json:"session_id"` // 队伍 Token 携带其所属比赛
	Username  string          `json:"username"`
	Role      models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateUserToken 为评审员/评审团账号签发 Token
func GenerateUserToken(user models.User) (string, error) {
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateTeamToken 为队伍设备签发 Token
func GenerateTeamToken(team models.Team) (string, error) {
	claims := Claims{
		TeamID:    team.ID,
		SessionID: team.SessionID,
		Username:  team.TeamName,
		Role:      models.RoleTeam,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, err
}
