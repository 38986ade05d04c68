package models_test

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/budget_backend/models"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
)

func TestRegisterAndLoginUser(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	user, err := models.RegisterUser(ctx, &models.NewUser{
		Username: "admin@local",
		Password: "s3cret-pass",
		RoleId:   models.RoleIdAdmin,
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Password == "s3cret-pass" {
		t.Fatalf("password stored in plain text")
	}

	_, err = models.RegisterUser(ctx, &models.NewUser{
		Username: "admin@local",
		Password: "another-pass",
		RoleId:   models.RoleIdOffice,
	})
	if !errors.Is(err, utils.ErrorConflict) {
		t.Fatalf("duplicate username: expected conflict, got %v", err)
	}

	_, err = models.RegisterUser(ctx, &models.NewUser{
		Username: "nobody@local",
		Password: "pass",
		RoleId:   7,
	})
	if !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("unknown role id: expected validation error, got %v", err)
	}

	info, err := models.LoginUser(ctx, &models.LoginInput{Username: "admin@local", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if info.Role != models.RoleAdmin {
		t.Fatalf("login role = %s, want Admin", info.Role)
	}
	if info.Token == "" {
		t.Fatalf("login returned empty token")
	}

	token, err := utils.JwtValidate(info.Token)
	if err != nil || !token.Valid {
		t.Fatalf("JwtValidate: %v (valid=%v)", err, token != nil && token.Valid)
	}
	claim, ok := token.Claims.(*utils.JwtCustomClaim)
	if !ok {
		t.Fatalf("unexpected claim type %T", token.Claims)
	}
	if claim.ID != user.ID || claim.RoleId != models.RoleIdAdmin {
		t.Fatalf("claim = %+v, want id %d role %d", claim, user.ID, models.RoleIdAdmin)
	}

	// A second login hits the redis cache and must behave the same.
	if _, err := models.LoginUser(ctx, &models.LoginInput{Username: "admin@local", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("cached LoginUser: %v", err)
	}

	_, err = models.LoginUser(ctx, &models.LoginInput{Username: "admin@local", Password: "wrong"})
	if !errors.Is(err, utils.ErrorAuthorization) {
		t.Fatalf("wrong password: expected authorization error, got %v", err)
	}
	_, err = models.LoginUser(ctx, &models.LoginInput{Username: "ghost@local", Password: "whatever"})
	if !errors.Is(err, utils.ErrorAuthorization) {
		t.Fatalf("unknown user: expected authorization error, got %v", err)
	}
}
