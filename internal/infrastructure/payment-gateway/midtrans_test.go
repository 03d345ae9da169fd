package paymentgateway

import (
	"context"
	"testing"

	"github.com/Aymix/whitecart/internal/dto"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSnap struct {
	lastReq *snap.Request
	res     *snap.Response
	err     *midtrans.Error
}

func (s *stubSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	s.lastReq = req
	return s.res, s.err
}

type stubCore struct {
	res *coreapi.TransactionStatusResponse
	err *midtrans.Error
}

func (s *stubCore) CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	return s.res, s.err
}

func TestCreateTransaction(t *testing.T) {
	snapCli := &stubSnap{res: &snap.Response{Token: "snap-token", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token"}}
	gateway := newMidtransGateway("server-key", snapCli, &stubCore{})

	res, err := gateway.CreateTransaction(context.Background(), dto.ChargeRequest{
		TransactionNumber: "trx-1",
		Amount:            798,
		CustomerEmail:     "ana@example.com",
		Items:             []dto.ChargeItem{{ID: "p1", Name: "Apples", Price: 399, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "snap-token", res.Token)
	assert.Equal(t, "trx-1", snapCli.lastReq.TransactionDetails.OrderID)
	assert.Equal(t, int64(798), snapCli.lastReq.TransactionDetails.GrossAmt)
	assert.Len(t, *snapCli.lastReq.Items, 1)
}

func TestCreateTransactionProviderError(t *testing.T) {
	snapCli := &stubSnap{err: &midtrans.Error{Message: "unauthorized", StatusCode: 401}}
	gateway := newMidtransGateway("server-key", snapCli, &stubCore{})

	_, err := gateway.CreateTransaction(context.Background(), dto.ChargeRequest{TransactionNumber: "trx-1", Amount: 100})
	assert.Error(t, err)
}

func TestCheckTransaction(t *testing.T) {
	core := &stubCore{res: &coreapi.TransactionStatusResponse{TransactionID: "mt-1", TransactionStatus: "settlement", FraudStatus: "accept"}}
	gateway := newMidtransGateway("server-key", &stubSnap{}, core)

	status, err := gateway.CheckTransaction(context.Background(), "trx-1")
	require.NoError(t, err)
	assert.Equal(t, "settlement", status.TransactionStatus)
	assert.Equal(t, "mt-1", status.TransactionID)
}

func TestVerifySignature(t *testing.T) {
	gateway := newMidtransGateway("server-key", &stubSnap{}, &stubCore{})
	notification := dto.PaymentNotification{
		OrderID:     "trx-1",
		StatusCode:  "200",
		GrossAmount: "798.00",
	}

	notification.SignatureKey = Signature("trx-1", "200", "798.00", "server-key")
	assert.True(t, gateway.VerifySignature(notification))

	notification.GrossAmount = "1.00"
	assert.False(t, gateway.VerifySignature(notification))
}
