// Package graphql exposes the shop over GraphQL: the users query and the
// register, login and checkout mutations.
package graphql

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/lojinha/app/models"
	"github.com/shashiranjanraj/lojinha/app/services"
	gql "github.com/shashiranjanraj/lojinha/pkg/graphql"
	"github.com/shashiranjanraj/lojinha/pkg/logger"
	"github.com/shashiranjanraj/lojinha/pkg/middleware"
)

var errInternal = errors.New("Erro interno")

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"name":  &graphql.Field{Type: graphql.String},
		"email": &graphql.Field{Type: graphql.String},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.String},
		"user":  &graphql.Field{Type: userType},
	},
})

var itemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Item",
	Fields: graphql.Fields{
		"productId": &graphql.Field{Type: graphql.Int},
		"quantity":  &graphql.Field{Type: graphql.Int},
	},
})

var checkoutType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Checkout",
	Fields: graphql.Fields{
		"userId":        &graphql.Field{Type: graphql.Int},
		"valorFinal":    &graphql.Field{Type: graphql.Float},
		"paymentMethod": &graphql.Field{Type: graphql.String},
		"freight":       &graphql.Field{Type: graphql.Float},
		"items":         &graphql.Field{Type: graphql.NewList(itemType)},
	},
})

var itemInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ItemInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"productId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		"quantity":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var cardDataInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CardDataInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"number": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"name":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"expiry": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"cvv":    &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

func nonNullString() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
}

// NewSchema builds the shop schema on top of the two services.
func NewSchema(auth *services.AuthService, checkout *services.CheckoutService) (graphql.Schema, error) {
	r := &resolver{auth: auth, checkout: checkout}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type:    graphql.NewList(userType),
				Resolve: r.users,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"name":     nonNullString(),
					"email":    nonNullString(),
					"password": nonNullString(),
				},
				Resolve: r.register,
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    nonNullString(),
					"password": nonNullString(),
				},
				Resolve: r.login,
			},
			"checkout": &graphql.Field{
				Type: checkoutType,
				Args: graphql.FieldConfigArgument{
					"items":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(itemInput)))},
					"freight":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"paymentMethod": nonNullString(),
					"cardData":      &graphql.ArgumentConfig{Type: cardDataInput},
				},
				Resolve: r.checkoutOrder,
			},
		},
	})

	return gql.NewSchema(query, mutation)
}

type resolver struct {
	auth     *services.AuthService
	checkout *services.CheckoutService
}

func (r *resolver) users(p graphql.ResolveParams) (interface{}, error) {
	users, err := r.auth.Users(p.Context)
	if err != nil {
		return nil, public(p.Context, err)
	}
	out := make([]map[string]interface{}, len(users))
	for i, u := range users {
		out[i] = userMap(u)
	}
	return out, nil
}

func (r *resolver) register(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.auth.Register(p.Context, str(p.Args, "name"), str(p.Args, "email"), str(p.Args, "password"))
	if err != nil {
		return nil, public(p.Context, err)
	}
	return userMap(user), nil
}

func (r *resolver) login(p graphql.ResolveParams) (interface{}, error) {
	token, user, err := r.auth.Login(p.Context, str(p.Args, "email"), str(p.Args, "password"))
	if err != nil {
		return nil, public(p.Context, err)
	}
	return map[string]interface{}{"token": token, "user": userMap(user)}, nil
}

func (r *resolver) checkoutOrder(p graphql.ResolveParams) (interface{}, error) {
	req := services.CheckoutRequest{
		Items:         items(p.Args["items"]),
		PaymentMethod: str(p.Args, "paymentMethod"),
		CardData:      cardData(p.Args["cardData"]),
	}
	req.Freight, _ = p.Args["freight"].(float64)

	order, err := r.checkout.Checkout(p.Context, middleware.TokenFromCtx(p.Context), req)
	if err != nil {
		return nil, public(p.Context, err)
	}

	lines := make([]map[string]interface{}, len(order.Items))
	for i, it := range order.Items {
		lines[i] = map[string]interface{}{"productId": it.ProductID, "quantity": it.Quantity}
	}
	return map[string]interface{}{
		"userId":        int(order.UserID),
		"valorFinal":    order.ValorFinal,
		"paymentMethod": order.PaymentMethod,
		"freight":       order.Freight,
		"items":         lines,
	}, nil
}

// public hides infrastructure failures behind a generic message.
func public(ctx context.Context, err error) error {
	for _, known := range []error{
		services.ErrDuplicateEmail,
		services.ErrInvalidCredentials,
		services.ErrInvalidToken,
		services.ErrProductNotFound,
		services.ErrInvalidInput,
		services.ErrInvalidCheckout,
		services.ErrPaymentDeclined,
	} {
		if errors.Is(err, known) {
			return known
		}
	}
	logger.WithCtx(ctx).Error("graphql resolver failed", "error", err)
	return errInternal
}

func userMap(u models.User) map[string]interface{} {
	return map[string]interface{}{"name": u.Name, "email": u.Email}
}

func str(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func items(raw interface{}) []models.Item {
	list, _ := raw.([]interface{})
	out := make([]models.Item, 0, len(list))
	for _, el := range list {
		m, _ := el.(map[string]interface{})
		pid, _ := m["productId"].(int)
		qty, _ := m["quantity"].(int)
		out = append(out, models.Item{ProductID: pid, Quantity: qty})
	}
	return out
}

func cardData(raw interface{}) *models.CardData {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	return &models.CardData{
		Number: str(m, "number"),
		Name:   str(m, "name"),
		Expiry: str(m, "expiry"),
		Cvv:    str(m, "cvv"),
	}
}
