package middleware

import (
	"net/http"
	"strings"

	"github.com/avivhostel-jpg/Smart-Aviv/config"
	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/code"
	"github.com/avivhostel-jpg/Smart-Aviv/models"
	"github.com/avivhostel-jpg/Smart-Aviv/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// AuthenticateStaff 验证员工身份，将姓名与角色写入上下文
func AuthenticateStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    code.ErrTokenInvalid,
				"message": "Authorization header is required",
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 提取token
		tokenString := extractToken(authHeader)
		token, err := jwtService.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    code.ErrTokenInvalid,
				"message": "Invalid token",
				"data":    nil,
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    code.ErrTokenInvalid,
				"message": "Invalid token claims",
				"data":    nil,
			})
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if !models.StaffRole(role).Valid() {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    code.ErrTokenInvalid,
				"message": "Insufficient permissions: requires a known staff role",
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 存储claims到上下文
		c.Set("staffName", claims["staff_name"])
		c.Set("staffRole", role)
		c.Set("claims", claims)
		c.Next()
	}
}
