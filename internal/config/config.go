// Package config reads the server settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the settings for `parabola serve`.
type Config struct {
	HTTPAddr string

	DBDriver string // sqlite|postgres
	DBDSN    string

	CORSOrigins []string

	// AuthSecret signs teacher tokens. Empty means a random per-process
	// secret, so tokens do not survive a restart.
	AuthSecret string

	// TeacherPassHash is the bcrypt hash checked by /auth/login. Empty
	// disables teacher login.
	TeacherPassHash string

	CanvasSize     int
	GradeWithImage bool
}

// FromEnv reads PARABOLA_* variables, using defaults for unset ones.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOr("PARABOLA_HTTP_ADDR", ":8080"),
		DBDriver:        envOr("PARABOLA_DB_DRIVER", "sqlite"),
		DBDSN:           envOr("PARABOLA_DB_DSN", ""),
		CORSOrigins:     csvOr("PARABOLA_CORS_ORIGINS", "http://localhost:3000"),
		AuthSecret:      os.Getenv("PARABOLA_AUTH_SECRET"),
		TeacherPassHash: os.Getenv("PARABOLA_TEACHER_PASSWORD_HASH"),
		CanvasSize:      envInt("PARABOLA_CANVAS_SIZE", 560),
		GradeWithImage:  envBool("PARABOLA_GRADE_WITH_IMAGE", true),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
