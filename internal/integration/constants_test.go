package integration_test

import "time"

const (
	dbName         = "movie_booking"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"

	TestJWTSecret = "integration-secret"

	TestUserId     = 1
	TestUserEmail  = "test@example.com"
	TestOtherUser  = 2
	TestAdminId    = 99
	TestMovieTitle = "Test Movie"
	TestScreen     = 4
)

var (
	TestHoldTTL      = 5 * time.Minute
	TestCancelCutoff = 20 * time.Minute
)
