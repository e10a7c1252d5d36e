package service

import (
	"fmt"
	"log"

	"perpusku_backend/internals/features/library/fine_payments/model"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// QRISAssist membuat link pembayaran QRIS via Midtrans untuk batch
// denda. Murni bantuan: verifikasi pembayaran tetap manual oleh admin
// lewat bukti yang diunggah user.
type QRISAssist struct {
	client snap.Client
}

func InitQRISAssist(serverKey string) *QRISAssist {
	if serverKey == "" {
		log.Println("⚠️ MIDTRANS_SERVER_KEY kosong, bantuan QRIS dinonaktifkan")
		return nil
	}
	a := &QRISAssist{}
	a.client.New(serverKey, midtrans.Sandbox)
	log.Println("✅ Midtrans QRIS assist aktif (sandbox)")
	return a
}

func (a *QRISAssist) CreatePaymentLink(batch *model.FinePaymentBatchModel) (string, string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  fmt.Sprintf("FINE-%s", batch.FinePaymentBatchID),
			GrossAmt: int64(batch.FinePaymentBatchTotalIDR),
		},
	}

	resp, err := a.client.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}
