package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	RoleId    int       `gorm:"not null" json:"role_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	RoleId   int    `json:"role_id" binding:"required"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInfo struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

const duplicateEntryErrNo = 1062

/*
caches:
	User:$username
*/

func RegisterUser(ctx context.Context, input *NewUser) (*User, error) {
	if _, err := RoleFromId(input.RoleId); err != nil {
		return nil, utils.ValidationError("invalid role_id %d", input.RoleId)
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username: input.Username,
		Password: string(hashed),
		RoleId:   input.RoleId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntryErrNo {
			return nil, utils.ConflictError("user already exists")
		}
		return nil, err
	}
	return &user, nil
}

func LoginUser(ctx context.Context, input *LoginInput) (*LoginInfo, error) {
	user, err := getUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, utils.AuthorizationError("invalid username or password")
		}
		return nil, err
	}

	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, utils.AuthorizationError("invalid username or password")
	}

	role, err := RoleFromId(user.RoleId)
	if err != nil {
		return nil, err
	}

	token, err := utils.JwtGenerate(user.ID, user.Username, user.RoleId)
	if err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token:    token,
		Username: user.Username,
		Role:     role,
	}, nil
}

// retrieve user from redis or db
func getUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return nil, err
	}
	if exists {
		return &user, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("user %s", username)
		}
		return nil, err
	}

	if err := config.SetRedisObject("User:"+user.Username, &user, utils.GetCacheLifespan()); err != nil {
		return nil, err
	}
	return &user, nil
}
