package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolms/internal/auth"
	"schoolms/internal/school"
)

var (
	registerFailure = failure{failed: "Registration failed"}
	loginFailure    = failure{failed: "Login failed"}
	userFailure     = failure{failed: "Failed to fetch user", notFound: "User not found"}
	statsFailure    = failure{failed: "Failed to fetch statistics"}
)

func (s *server) register(c *gin.Context) {
	var in school.RegisterInput
	if !s.bind(c, &in, registerFailure) {
		return
	}
	acc, err := s.svc.Register(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, registerFailure)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "userId": acc.ID})
}

func (s *server) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !s.bind(c, &req, loginFailure) {
		return
	}
	res, err := s.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(c, err, loginFailure)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *server) currentUser(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": userFailure.failed})
		return
	}
	usr, err := s.svc.Account(c.Request.Context(), claims.UserID)
	if err != nil {
		s.fail(c, err, userFailure)
		return
	}
	c.JSON(http.StatusOK, usr)
}

func (s *server) stats(c *gin.Context) {
	st, err := s.svc.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err, statsFailure)
		return
	}
	c.JSON(http.StatusOK, st)
}
