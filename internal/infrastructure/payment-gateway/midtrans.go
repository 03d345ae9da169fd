package paymentgateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/Aymix/whitecart/config"
	"github.com/Aymix/whitecart/internal/dto"
	circuitbreaker "github.com/Aymix/whitecart/internal/infrastructure/circuit-breaker"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

type snapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type coreClient interface {
	CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

type MidtransGateway struct {
	serverKey     string
	snap          snapClient
	core          coreClient
	chargeBreaker *gobreaker.CircuitBreaker[dto.ChargeResponse]
	statusBreaker *gobreaker.CircuitBreaker[dto.TransactionStatus]
}

func CreateMidtransGateway(config *config.Config) *MidtransGateway {
	env := midtrans.Sandbox
	if config.IsProduction() {
		env = midtrans.Production
	}

	snapCli := &snap.Client{}
	snapCli.New(config.MidtransConfig.ServerKey, env)

	coreCli := &coreapi.Client{}
	coreCli.New(config.MidtransConfig.ServerKey, env)

	return newMidtransGateway(config.MidtransConfig.ServerKey, snapCli, coreCli)
}

func newMidtransGateway(serverKey string, snapCli snapClient, coreCli coreClient) *MidtransGateway {
	return &MidtransGateway{
		serverKey:     serverKey,
		snap:          snapCli,
		core:          coreCli,
		chargeBreaker: circuitbreaker.CreateCircuitBreaker[dto.ChargeResponse]("midtrans-charge"),
		statusBreaker: circuitbreaker.CreateCircuitBreaker[dto.TransactionStatus]("midtrans-status"),
	}
}

func (g *MidtransGateway) CreateTransaction(ctx context.Context, req dto.ChargeRequest) (dto.ChargeResponse, error) {
	items := make([]midtrans.ItemDetails, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, midtrans.ItemDetails{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
			Qty:   int32(item.Quantity),
		})
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.TransactionNumber,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
		Items: &items,
	}

	return g.chargeBreaker.Execute(func() (dto.ChargeResponse, error) {
		res, mErr := g.snap.CreateTransaction(snapReq)
		if mErr != nil {
			log.Ctx(ctx).Error().Err(mErr).Str("component", "CreateTransaction").Msg("")
			return dto.ChargeResponse{}, mErr
		}

		if res == nil || res.Token == "" {
			return dto.ChargeResponse{}, fmt.Errorf("payment gateway returned an empty token")
		}

		return dto.ChargeResponse{Token: res.Token, RedirectURL: res.RedirectURL}, nil
	})
}

func (g *MidtransGateway) CheckTransaction(ctx context.Context, transactionNumber string) (dto.TransactionStatus, error) {
	return g.statusBreaker.Execute(func() (dto.TransactionStatus, error) {
		res, mErr := g.core.CheckTransaction(transactionNumber)
		if mErr != nil {
			log.Ctx(ctx).Error().Err(mErr).Str("component", "CheckTransaction").Msg("")
			return dto.TransactionStatus{}, mErr
		}

		if res == nil {
			return dto.TransactionStatus{}, fmt.Errorf("payment gateway returned an empty status for %s", transactionNumber)
		}

		return dto.TransactionStatus{
			TransactionID:     res.TransactionID,
			TransactionStatus: res.TransactionStatus,
			FraudStatus:       res.FraudStatus,
		}, nil
	})
}

// VerifySignature checks sha512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) VerifySignature(n dto.PaymentNotification) bool {
	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, g.serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
