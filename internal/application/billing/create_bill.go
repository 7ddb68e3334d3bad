package billing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
	domainbilling "github.com/jhoicas/Billing-api/internal/domain/billing"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
	"github.com/jhoicas/Billing-api/pkg/logger"
)

// Config parámetros de facturación.
type Config struct {
	TaxRate      decimal.Decimal // 0.10 = 10%
	NumberPrefix string          // BILL
}

// CreateBillUseCase crea facturas descontando inventario en una sola transacción
// y gestiona sus cambios de estado.
type CreateBillUseCase struct {
	txRunner     BillingTxRunner
	billRepo     repository.BillRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	idempotency  IdempotencyStore
	cfg          Config
	log          *logger.Logger
	now          func() time.Time
}

// NewCreateBillUseCase construye el caso de uso. idempotency puede ser nil (sin soporte de Idempotency-Key).
func NewCreateBillUseCase(
	txRunner BillingTxRunner,
	billRepo repository.BillRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	idempotency IdempotencyStore,
	cfg Config,
	log *logger.Logger,
) *CreateBillUseCase {
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = domainbilling.DefaultNumberPrefix
	}
	return &CreateBillUseCase{
		txRunner:     txRunner,
		billRepo:     billRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		idempotency:  idempotency,
		cfg:          cfg,
		log:          logger.OrNop(log).Named("billing"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateBill valida la petición y crea la factura con sus líneas descontando stock.
// Todo o nada: cualquier error deja factura, líneas, stock y contador como estaban.
// Un conflicto de numeración se reintenta una vez resincronizando el contador.
func (uc *CreateBillUseCase) CreateBill(ctx context.Context, userID, idempotencyKey string, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	status, err := validateCreateBill(userID, in)
	if err != nil {
		return nil, err
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey == "" || uc.idempotency == nil {
		return uc.createWithRetry(ctx, userID, status, in)
	}

	idempotencyKey = ScopedIdempotencyKey(userID, idempotencyKey)
	billID, reserved, err := uc.idempotency.Reserve(ctx, idempotencyKey)
	if err != nil {
		return nil, domain.NewTransientStorageError("reservar idempotency key", err)
	}
	if !reserved {
		if billID == "" {
			return nil, domain.ErrIdempotencyInProgress
		}
		prev, err := uc.GetBill(ctx, billID)
		if err != nil {
			return nil, err
		}
		if !sameBillRequest(prev, in) {
			return nil, domain.NewValidationError("Idempotency-Key", "ya se usó con un cuerpo distinto")
		}
		return prev, nil
	}

	resp, err := uc.createWithRetry(ctx, userID, status, in)
	if err != nil {
		if relErr := uc.idempotency.Release(context.WithoutCancel(ctx), idempotencyKey); relErr != nil {
			uc.log.Warn().Err(relErr).Str("idempotency_key", idempotencyKey).Msg("no se pudo liberar la clave")
		}
		return nil, err
	}
	if err := uc.idempotency.Complete(context.WithoutCancel(ctx), idempotencyKey, resp.ID); err != nil {
		uc.log.Warn().Err(err).Str("idempotency_key", idempotencyKey).Msg("no se pudo completar la clave")
	}
	return resp, nil
}

func (uc *CreateBillUseCase) createWithRetry(ctx context.Context, userID string, status entity.BillStatus, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("usuario", userID)
	}

	resp, err := uc.createOnce(ctx, user, status, in, false)
	if errors.Is(err, domain.ErrNumberingConflict) {
		uc.log.Warn().Err(err).Msg("conflicto de numeración, reintentando")
		resp, err = uc.createOnce(ctx, user, status, in, true)
	}
	return resp, err
}

func (uc *CreateBillUseCase) createOnce(ctx context.Context, user *entity.User, status entity.BillStatus, in dto.CreateBillRequest, resync bool) (*dto.BillResponse, error) {
	var result *dto.BillResponse

	err := uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		billRepo repository.BillRepository,
		seqRepo repository.BillSequenceRepository,
	) error {
		customer, err := customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.NewNotFoundError("cliente", in.CustomerID)
		}

		// 1) Productos y cantidades agregadas por producto; el precio es el vigente en la transacción.
		requested, err := aggregateQuantities(in.Items)
		if err != nil {
			return err
		}
		products := make(map[string]*entity.Product, len(requested))
		for _, item := range in.Items {
			if _, ok := products[item.ProductID]; ok {
				continue
			}
			p, err := productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.NewNotFoundError("producto", item.ProductID)
			}
			products[item.ProductID] = p
		}

		// 2) Totales
		lines := make([]domainbilling.Line, 0, len(in.Items))
		for _, item := range in.Items {
			lines = append(lines, domainbilling.Line{Quantity: item.Quantity, UnitPrice: products[item.ProductID].Price})
		}
		totals, err := domainbilling.CalculateTotals(lines, uc.cfg.TaxRate, in.Discount)
		if err != nil {
			return err
		}

		// 3) Descuento condicional de stock, en orden de ID para evitar deadlocks entre transacciones.
		ids := make([]string, 0, len(requested))
		for id := range requested {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			remaining, ok, err := productRepo.DecrementStock(ctx, id, requested[id])
			if err != nil {
				return err
			}
			if !ok {
				available := products[id].Stock
				if current, err := productRepo.GetByID(ctx, id); err == nil && current != nil {
					available = current.Stock
				}
				return &domain.InsufficientStockError{
					ProductID:   id,
					ProductName: products[id].Name,
					Available:   available,
					Requested:   requested[id],
				}
			}
			products[id].Stock = remaining
		}

		// 4) Número de factura
		number, err := uc.allocateNumber(ctx, billRepo, seqRepo, resync)
		if err != nil {
			return err
		}

		// 5) Cabecera y líneas
		now := uc.now()
		bill := &entity.Bill{
			ID:         uuid.New().String(),
			BillNumber: number,
			CustomerID: customer.ID,
			UserID:     user.ID,
			Subtotal:   totals.Subtotal,
			Tax:        totals.Tax,
			Discount:   totals.Discount,
			Total:      totals.Total,
			Status:     status,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := billRepo.Create(ctx, bill); err != nil {
			return err
		}
		items := make([]*entity.BillItem, 0, len(in.Items))
		for _, it := range in.Items {
			p := products[it.ProductID]
			item := &entity.BillItem{
				ID:          uuid.New().String(),
				BillID:      bill.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				ProductSKU:  p.SKU,
				Quantity:    it.Quantity,
				Price:       p.Price,
				Total:       domainbilling.LineTotal(it.Quantity, p.Price),
			}
			if err := billRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			items = append(items, item)
		}

		result = toBillResponse(bill, customer, user, items, products)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("bill_id", result.ID).
		Str("bill_number", result.BillNumber).
		Str("total", result.Total.StringFixed(2)).
		Int("items", len(result.Items)).
		Msg("factura creada")
	return result, nil
}

// allocateNumber toma el siguiente valor del contador. Si el contador no existe (o resync),
// lo ajusta a partir de la última factura emitida.
func (uc *CreateBillUseCase) allocateNumber(ctx context.Context, billRepo repository.BillRepository, seqRepo repository.BillSequenceRepository, resync bool) (string, error) {
	prefix := uc.cfg.NumberPrefix
	if !resync {
		n, found, err := seqRepo.Next(ctx, prefix)
		if err != nil {
			return "", err
		}
		if found {
			return domainbilling.FormatBillNumber(prefix, n), nil
		}
	}

	latest, err := billRepo.GetLatest(ctx)
	if err != nil {
		return "", err
	}
	last := ""
	if latest != nil {
		last = latest.BillNumber
	}
	_, next, err := domainbilling.NextBillNumber(prefix, last)
	if err != nil {
		return "", err
	}
	n, err := seqRepo.Advance(ctx, prefix, next)
	if err != nil {
		return "", err
	}
	return domainbilling.FormatBillNumber(prefix, n), nil
}

// GetBill obtiene una factura con cliente, usuario y líneas (con el producto actual).
func (uc *CreateBillUseCase) GetBill(ctx context.Context, id string) (*dto.BillResponse, error) {
	bill, err := uc.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.NewNotFoundError("factura", id)
	}
	items, err := uc.billRepo.GetItemsByBillID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customerRepo.GetByID(ctx, bill.CustomerID)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, bill.UserID)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product, len(items))
	for _, it := range items {
		if _, ok := products[it.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			products[it.ProductID] = p
		}
	}
	return toBillResponse(bill, customer, user, items, products), nil
}

// UpdateStatus aplica PUT /api/bills/:id. Mismo estado es un no-op.
func (uc *CreateBillUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateBillStatusRequest) (*dto.BillResponse, error) {
	to, err := domainbilling.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if err := uc.transition(ctx, id, to); err != nil {
		return nil, err
	}
	return uc.GetBill(ctx, id)
}

// MarkPaid marca la factura como PAID. Idempotente: si ya está pagada no hace nada y no falla.
func (uc *CreateBillUseCase) MarkPaid(ctx context.Context, id string) (*dto.BillResponse, error) {
	if err := uc.transition(ctx, id, entity.BillStatusPaid); err != nil {
		return nil, err
	}
	return uc.GetBill(ctx, id)
}

func (uc *CreateBillUseCase) transition(ctx context.Context, id string, to entity.BillStatus) error {
	return uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.CustomerRepository,
		billRepo repository.BillRepository,
		_ repository.BillSequenceRepository,
	) error {
		bill, err := billRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.NewNotFoundError("factura", id)
		}
		from := bill.Status
		if from == to {
			return nil
		}
		if err := domainbilling.ValidateTransition(from, to); err != nil {
			return err
		}

		updated, err := billRepo.UpdateStatus(ctx, id, from, to, uc.now())
		if err != nil {
			return err
		}
		if !updated {
			// Otro proceso cambió el estado entre la lectura y el update.
			current, err := billRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if current != nil && current.Status == to {
				return nil
			}
			return fmt.Errorf("%w: la factura %s cambió de estado", domain.ErrConflict, id)
		}

		if domainbilling.RestocksOn(from, to) {
			items, err := billRepo.GetItemsByBillID(ctx, id)
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := productRepo.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		uc.log.Info().
			Str("bill_id", id).
			Str("bill_number", bill.BillNumber).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("estado de factura actualizado")
		return nil
	})
}

// MaxQuantity tope por línea y por producto agregado (columnas INTEGER).
const MaxQuantity = math.MaxInt32

// aggregateQuantities suma las cantidades por producto; un total por encima de MaxQuantity es un ValidationError.
func aggregateQuantities(items []dto.BillItemRequest) (map[string]int, error) {
	out := make(map[string]int, len(items))
	for _, item := range items {
		if out[item.ProductID] > MaxQuantity-item.Quantity {
			return nil, domain.NewValidationError("items", fmt.Sprintf("la cantidad total de %s supera %d", item.ProductID, MaxQuantity))
		}
		out[item.ProductID] += item.Quantity
	}
	return out, nil
}

// ScopedIdempotencyKey acota la Idempotency-Key al usuario que la envía.
func ScopedIdempotencyKey(userID, key string) string {
	return userID + ":" + key
}

// sameBillRequest compara una repetición con la factura que creó la clave: cliente, descuento y cantidades por producto.
func sameBillRequest(prev *dto.BillResponse, in dto.CreateBillRequest) bool {
	if prev.CustomerID != in.CustomerID || !prev.Discount.Equal(in.Discount.Round(2)) {
		return false
	}
	want, err := aggregateQuantities(in.Items)
	if err != nil {
		return false
	}
	got := make(map[string]int, len(prev.Items))
	for _, it := range prev.Items {
		got[it.ProductID] += it.Quantity
	}
	if len(got) != len(want) {
		return false
	}
	for id, qty := range want {
		if got[id] != qty {
			return false
		}
	}
	return true
}

// validateCreateBill rechaza la petición antes de cualquier mutación y resuelve el estado inicial.
func validateCreateBill(userID string, in dto.CreateBillRequest) (entity.BillStatus, error) {
	if strings.TrimSpace(userID) == "" {
		return "", domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return "", domain.NewValidationError("customerId", "requerido")
	}
	if len(in.Items) == 0 {
		return "", domain.NewValidationError("items", "debe incluir al menos un producto")
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return "", domain.NewValidationError(fmt.Sprintf("items[%d].productId", i), "requerido")
		}
		if item.Quantity <= 0 {
			return "", domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
		if item.Quantity > MaxQuantity {
			return "", domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("no puede superar %d", MaxQuantity))
		}
	}
	if _, err := aggregateQuantities(in.Items); err != nil {
		return "", err
	}
	if in.Discount.IsNegative() {
		return "", domain.NewValidationError("discount", "no puede ser negativo")
	}

	if in.PaymentStatus == "" {
		return entity.BillStatusPending, nil
	}
	status, err := domainbilling.ParseStatus(in.PaymentStatus)
	if err != nil {
		return "", err
	}
	if status == entity.BillStatusCancelled {
		return "", domain.NewValidationError("paymentStatus", "solo se admite PENDING o PAID")
	}
	return status, nil
}

func toBillResponse(
	bill *entity.Bill,
	customer *entity.Customer,
	user *entity.User,
	items []*entity.BillItem,
	products map[string]*entity.Product,
) *dto.BillResponse {
	resp := &dto.BillResponse{
		ID:         bill.ID,
		BillNumber: bill.BillNumber,
		CustomerID: bill.CustomerID,
		UserID:     bill.UserID,
		Subtotal:   bill.Subtotal,
		Tax:        bill.Tax,
		Discount:   bill.Discount,
		Total:      bill.Total,
		Status:     string(bill.Status),
		Items:      make([]dto.BillItemResponse, 0, len(items)),
		CreatedAt:  bill.CreatedAt,
		UpdatedAt:  bill.UpdatedAt,
	}
	if customer != nil {
		resp.Customer = toCustomerResponse(customer)
	}
	if user != nil {
		resp.User = &dto.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email}
	}
	for _, it := range items {
		line := dto.BillItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Total:       it.Total,
		}
		if p, ok := products[it.ProductID]; ok {
			line.Product = &dto.ProductSummary{ID: p.ID, Name: p.Name, SKU: p.SKU, Category: p.Category, Stock: p.Stock}
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
