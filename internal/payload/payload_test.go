package payload

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baansom-pos/api/internal/enum"
	"github.com/baansom-pos/api/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBuild_Basic(t *testing.T) {
	productID := uuid.New()
	cart := []model.CartItem{
		{Product: model.Product{ID: productID, Price: dec("100")}, Quantity: 1},
	}
	totals := Totals{SubTotal: dec("100"), DiscountAmount: decimal.Zero, TotalAmount: dec("100")}

	p := Build(cart, enum.OrderTypeDineIn, totals, Refs{OrderNo: "BS-001"})

	if !p.VAT.IsZero() {
		t.Errorf("vat: got %v, want 0", p.VAT)
	}
	if p.Status != enum.OrderStatusPending {
		t.Errorf("order status: got %q, want Pending", p.Status)
	}
	if !p.ReceivedAmount.IsZero() || !p.ChangeAmount.IsZero() {
		t.Error("received/change must start at zero")
	}
	if len(p.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(p.Items))
	}
	if !p.Items[0].TotalPrice.Equal(dec("100")) {
		t.Errorf("item total: got %v, want 100", p.Items[0].TotalPrice)
	}
	if p.Items[0].Status != enum.ItemStatusCooking {
		t.Errorf("item status: got %q, want Cooking (kitchen starts immediately)", p.Items[0].Status)
	}
}

func TestBuild_ItemTotalsIncludeExtras(t *testing.T) {
	cart := []model.CartItem{
		{
			Product:  model.Product{ID: uuid.New(), Price: dec("60")},
			Quantity: 2,
			Details: []model.Detail{
				{DetailName: "Extra egg", ExtraPrice: dec("10")},
				{DetailName: "Large", ExtraPrice: dec("15")},
			},
		},
	}

	p := Build(cart, enum.OrderTypeDineIn, Totals{}, Refs{OrderNo: "BS-002"})

	// (60 + 10 + 15) * 2 = 170
	if !p.Items[0].TotalPrice.Equal(dec("170")) {
		t.Errorf("item total with extras: got %v, want 170", p.Items[0].TotalPrice)
	}
	if !p.Items[0].Price.Equal(dec("60")) {
		t.Errorf("unit price stays the bare product price: got %v", p.Items[0].Price)
	}
}

func TestPriceFor_DeliveryColumn(t *testing.T) {
	p := model.Product{Price: dec("100"), DeliveryPrice: dec("120")}
	if got := PriceFor(p, enum.OrderTypeDelivery); !got.Equal(dec("120")) {
		t.Errorf("delivery price: got %v, want 120", got)
	}
	if got := PriceFor(p, enum.OrderTypeDineIn); !got.Equal(dec("100")) {
		t.Errorf("dine-in price: got %v, want 100", got)
	}
	if got := PriceFor(p, enum.OrderTypeTakeAway); !got.Equal(dec("100")) {
		t.Errorf("takeaway price: got %v, want 100", got)
	}
}

func TestPriceFor_DeliveryFallsBackToStandard(t *testing.T) {
	p := model.Product{Price: dec("100")} // no delivery price list
	if got := PriceFor(p, enum.OrderTypeDelivery); !got.Equal(dec("100")) {
		t.Errorf("delivery fallback: got %v, want 100", got)
	}
}

func TestBuild_DeliveryUsesDeliveryPrice(t *testing.T) {
	cart := []model.CartItem{
		{Product: model.Product{ID: uuid.New(), Price: dec("100"), DeliveryPrice: dec("130")}, Quantity: 2},
	}

	p := Build(cart, enum.OrderTypeDelivery, Totals{}, Refs{OrderNo: "BS-003", DeliveryCode: "GF-889"})

	if !p.Items[0].Price.Equal(dec("130")) {
		t.Errorf("delivery unit price: got %v, want 130", p.Items[0].Price)
	}
	if !p.Items[0].TotalPrice.Equal(dec("260")) {
		t.Errorf("delivery line total: got %v, want 260", p.Items[0].TotalPrice)
	}
	if p.DeliveryCode != "GF-889" {
		t.Errorf("delivery code: got %q", p.DeliveryCode)
	}
}

func TestBuild_FallbackOrderNo(t *testing.T) {
	p := Build(nil, enum.OrderTypeDineIn, Totals{}, Refs{})
	if !strings.HasPrefix(p.OrderNo, "ORD-") || len(p.OrderNo) != len("ORD-20060102150405") {
		t.Errorf("fallback order no: got %q", p.OrderNo)
	}
}

func TestBuild_KeepsRefs(t *testing.T) {
	discountID := uuid.New()
	tableID := uuid.New()
	p := Build(nil, enum.OrderTypeDineIn, Totals{}, Refs{
		OrderNo:    "BS-004",
		DiscountID: &discountID,
		TableID:    &tableID,
	})
	if p.DiscountID == nil || *p.DiscountID != discountID {
		t.Error("discount reference lost")
	}
	if p.TableID == nil || *p.TableID != tableID {
		t.Error("table reference lost")
	}
}
