package api

import (
	"bytes"
	"fmt"
	"time"

	"streamalloc/internal/app"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApiHandler struct {
	AllocationHandler app.AllocationHandler
	AllowedOrigins    []string
	Log               *zap.SugaredLogger
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(m.AllowedOrigins) == 0 || (len(m.AllowedOrigins) == 1 && m.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = m.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to streamalloc"})
	})
	router.POST("/allocate", m.allocate)
	router.POST("/validate", m.validate)
	router.POST("/projections", m.projections)

	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	zap.S().Error(err.Error())
	c.AbortWithStatusJSON(500, gin.H{
		"error": err.Error(),
	})
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	zap.S().Error(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// logRequestMiddleware tags every request with an id and logs the route,
// latency and status.
func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	requestID := uuid.New()
	ctx.Header("X-Request-Id", requestID.String())

	start := time.Now().UTC()
	ctx.Next()

	m.Log.Infow("request",
		"requestId", requestID.String(),
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"ip", ctx.ClientIP(),
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}
