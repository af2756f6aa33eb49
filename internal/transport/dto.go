package transport

import (
	"github.com/Skotchmaster/catalog_api/internal/validation"
)

type LoginRequest struct {
	Email    *string `json:"email"    validate:"present,filled"`
	Password *string `json:"password" validate:"present,filled,min=6"`

	typeErrs *validation.Bag
}

func NewLoginRequest(f validation.Fields) LoginRequest {
	bag := validation.NewBag()
	return LoginRequest{
		Email:    f.String("email", bag),
		Password: f.String("password", bag),
		typeErrs: bag,
	}
}

func (r *LoginRequest) TypeErrors() *validation.Bag { return bagOrNew(r.typeErrs) }

type CreateProductRequest struct {
	Name        *string `json:"name"        validate:"present,filled,max=255"`
	Description *string `json:"description" validate:"present,filled,max=255"`
	Price       *int64  `json:"price"       validate:"present,min=1"`
	CategoryID  *int64  `json:"category_id" validate:"present"`

	typeErrs *validation.Bag
}

func NewCreateProductRequest(f validation.Fields) CreateProductRequest {
	bag := validation.NewBag()
	return CreateProductRequest{
		Name:        f.String("name", bag),
		Description: f.String("description", bag),
		Price:       f.Integer("price", bag),
		CategoryID:  f.Integer("category_id", bag),
		typeErrs:    bag,
	}
}

func (r *CreateProductRequest) TypeErrors() *validation.Bag { return bagOrNew(r.typeErrs) }

// PatchProductRequest leaves nil fields untouched. An explicit null counts as absent.
type PatchProductRequest struct {
	Name        *string `json:"name"        validate:"omitnil,filled,max=255"`
	Description *string `json:"description" validate:"omitnil,filled,max=255"`
	Price       *int64  `json:"price"       validate:"omitnil,min=1"`
	CategoryID  *int64  `json:"category_id"`

	typeErrs *validation.Bag
}

func NewPatchProductRequest(f validation.Fields) PatchProductRequest {
	bag := validation.NewBag()
	return PatchProductRequest{
		Name:        f.String("name", bag),
		Description: f.String("description", bag),
		Price:       f.Integer("price", bag),
		CategoryID:  f.Integer("category_id", bag),
		typeErrs:    bag,
	}
}

func (r *PatchProductRequest) TypeErrors() *validation.Bag { return bagOrNew(r.typeErrs) }

func (r *PatchProductRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil && r.CategoryID == nil
}

func bagOrNew(b *validation.Bag) *validation.Bag {
	if b == nil {
		return validation.NewBag()
	}
	return b
}
