package billing

import (
	"context"
	"strings"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/taskfox/taskfox/internal/pkg/env"
)

// SnapGateway creates payment intents with the external processor and
// returns the opaque client-facing token plus a redirect URL.
type SnapGateway interface {
	CreateTransaction(ctx context.Context, req SnapRequest) (token string, redirectURL string, err error)
}

// MidtransGateway is the production SnapGateway backed by the Midtrans Snap
// API.
type MidtransGateway struct {
	client    snap.Client
	finishURL string
}

// NewMidtransGatewayFromEnv configures the Snap client from MIDTRANS_* env
// settings.
func NewMidtransGatewayFromEnv() *MidtransGateway {
	serverKey := env.GetEnv("MIDTRANS_SERVER_KEY", "")
	environment := midtrans.Sandbox
	if env.GetEnv("MIDTRANS_IS_PRODUCTION", "false") == "true" {
		environment = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, environment)

	finishURL := strings.TrimRight(env.GetEnv("APP_URL", ""), "/") + "/payment/finish"

	return &MidtransGateway{client: client, finishURL: finishURL}
}

func (g *MidtransGateway) CreateTransaction(ctx context.Context, req SnapRequest) (string, string, error) {
	// The Snap SDK carries its own HTTP timeout; ctx is honored by callers
	// for the overall transaction deadline.
	_ = ctx

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.ReferenceKey,
			GrossAmt: req.GrossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			LName: "",
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       req.Item.ID,
				Price:    req.Item.Price,
				Qty:      req.Item.Quantity,
				Name:     req.Item.Name,
				Brand:    req.Item.Brand,
				Category: req.Item.Category,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: g.finishURL,
		},
		Expiry: &snap.ExpiryDetails{
			Unit:     "minutes",
			Duration: req.ExpiryMinutes,
		},
	}

	resp, mErr := g.client.CreateTransaction(snapReq)
	if mErr != nil {
		return "", "", wrapError(CodeGateway, "payment intent creation failed", mErr)
	}
	return resp.Token, resp.RedirectURL, nil
}
