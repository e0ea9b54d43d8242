package users

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is an account able to sign in. Password holds the bcrypt hash and is
// never serialised.
type User struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id" example:"333333333333333333333300" swaggertype:"string"`
	Fullname string        `bson:"fullname" json:"fullname" example:"Bob User"`
	Username string        `bson:"username" json:"username" example:"bobuser"`
	Password string        `bson:"password" json:"-"`
}

// SignUpRequest is the body of POST /api/users.
type SignUpRequest struct {
	Fullname string `json:"fullname" validate:"trimmed,max=128" example:"Bob User"`
	Username string `json:"username" validate:"required,trimmed,max=64" example:"bobuser"`
	Password string `json:"password" validate:"required,trimmed,min=8,maxbytes=72" example:"baseball"`
}

// SignInRequest is the body of POST /api/login.
type SignInRequest struct {
	Username string `json:"username" validate:"required" example:"bobuser"`
	Password string `json:"password" validate:"required" example:"baseball"`
}

// AuthResponse carries a signed bearer token.
type AuthResponse struct {
	AuthToken string `json:"authToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.e30.x"`
}
