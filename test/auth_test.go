//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"

	"github.com/brianvoe/gofakeit/v6"
)

func (s *IntegrationTestSuite) TestRegisterLoginLogout() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.newLoggedInUser(ctx)

	resp, body := s.doRequest(ctx, "GET", "/profile", u.Token, nil)
	s.Equal(http.StatusOK, resp.StatusCode, string(body))
	s.Contains(string(body), u.Email)

	resp, _ = s.doRequest(ctx, "POST", "/a/login", "", map[string]string{
		"email":    u.Email,
		"password": "wrong-password",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.doRequest(ctx, "POST", "/a/register", "", map[string]string{
		"fullName": gofakeit.Name(),
		"email":    u.Email,
		"password": gofakeit.Password(true, true, true, false, false, 12),
	})
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp, body = s.doRequest(ctx, "GET", "/a/logout", u.Token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("logged-out", string(body))

	resp, _ = s.doRequest(ctx, "GET", "/profile", u.Token, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestChangePassword() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.newLoggedInUser(ctx)
	newPassword := gofakeit.Password(true, true, true, false, false, 16)

	resp, _ := s.doRequest(ctx, "PUT", "/profile/password", u.Token, map[string]string{
		"currentPassword": "not-the-password",
		"newPassword":     newPassword,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, body := s.doRequest(ctx, "PUT", "/profile/password", u.Token, map[string]string{
		"currentPassword": u.Password,
		"newPassword":     newPassword,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	s.NotEmpty(s.login(ctx, u.Email, newPassword))
}
