package settlement

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"coopledger/internal/core/apperror"
	appctx "coopledger/internal/core/context"
	"coopledger/internal/core/numerator"
	"coopledger/internal/core/tx"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/purchase"
	"coopledger/pkg/logger"
)

var tracer = otel.Tracer("coopledger/settlement")

// Config tunes the engine.
type Config struct {
	// MaxLineWorkers bounds concurrent line settlement within one order.
	// 1 settles lines sequentially.
	MaxLineWorkers int

	// NumberPrefix is used for generated order numbers.
	NumberPrefix string
}

// DefaultConfig returns the defaults used by cmd/server.
func DefaultConfig() Config {
	return Config{MaxLineWorkers: 4, NumberPrefix: "ORD"}
}

// Deps groups the engine collaborators. Idempotency, Events, Audit,
// Orders and Metrics are optional.
type Deps struct {
	Inventory   *inventory.Service
	Purchases   purchase.Repository
	Orders      OrderRepository
	Numbers     numerator.Generator
	TxManager   tx.Manager
	Idempotency IdempotencyStore
	Events      EventPublisher
	Audit       AuditLogger
	Metrics     Recorder
}

// Engine settles orders.
type Engine struct {
	cfg  Config
	deps Deps
	now  func() time.Time
}

// NewEngine creates a new settlement engine.
func NewEngine(cfg Config, deps Deps) *Engine {
	if cfg.MaxLineWorkers <= 0 {
		cfg.MaxLineWorkers = 1
	}
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = "ORD"
	}
	if deps.Metrics == nil {
		deps.Metrics = nopRecorder{}
	}
	return &Engine{cfg: cfg, deps: deps, now: time.Now}
}

// WithClock overrides the time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// SubmitOrder settles every line of order.
//
// The returned error is reserved for order-level problems: an invalid order,
// an idempotency conflict, or a failure before any line was attempted.
// Line failures and stock warnings are reported inside the Result.
func (e *Engine) SubmitOrder(ctx context.Context, order Order) (*Result, error) {
	ctx, span := tracer.Start(ctx, "settlement.SubmitOrder")
	defer span.End()

	started := e.now()

	if err := order.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid order")
		return nil, err
	}

	e.applyDefaults(ctx, &order, started)

	key := strings.TrimSpace(order.IdempotencyKey)
	if key != "" {
		replayed, err := e.claim(ctx, key, order)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if replayed != nil {
			span.SetAttributes(attribute.Bool("settlement.replayed", true))
			e.deps.Metrics.ObserveReplay()
			return replayed, nil
		}
	}

	if order.Number == "" {
		number, err := e.deps.Numbers.GetNextNumber(ctx,
			numerator.DefaultConfig(e.cfg.NumberPrefix), numerator.DefaultOptions(), *order.Date)
		if err != nil {
			e.release(ctx, key)
			span.RecordError(err)
			return nil, apperror.NewInternal(fmt.Errorf("generate order number: %w", err))
		}
		order.Number = number
	}
	span.SetAttributes(
		attribute.String("settlement.order_number", order.Number),
		attribute.Int("settlement.lines", len(order.Lines)),
	)

	e.writeHeader(ctx, &order)

	lines := e.settleLines(ctx, &order)

	res := &Result{
		OrderNumber: order.Number,
		CustomerID:  order.CustomerID,
		StaffName:   order.StaffName,
		OrderDate:   *order.Date,
		Lines:       lines,
		Summary:     Summarize(order.Number, lines),
	}

	e.publish(ctx, res)

	if key != "" {
		if err := e.deps.Idempotency.CompleteKey(ctx, key, res); err != nil {
			logger.Error(ctx, "complete idempotency key", "key", key, "error", err)
		}
	}

	e.deps.Metrics.ObserveSettlement(res, e.now().Sub(started))

	logger.Info(ctx, "order settled",
		"order_number", res.OrderNumber,
		"lines", res.Summary.LineCount,
		"settled", res.Summary.SettledCount,
		"failed", res.Summary.FailedCount,
		"warnings", res.Summary.WarningCount,
		"out_of_stock", res.Summary.OutOfStockProductNames,
	)
	return res, nil
}

func (e *Engine) applyDefaults(ctx context.Context, o *Order, now time.Time) {
	if o.CustomerID == 0 {
		o.CustomerID = purchase.WalkInCustomerID
	}
	o.StaffName = strings.TrimSpace(o.StaffName)
	if o.StaffName == "" {
		o.StaffName = appctx.GetStaffName(ctx)
	}
	if o.Date == nil || o.Date.IsZero() {
		d := now
		o.Date = &d
	}
	o.Number = strings.TrimSpace(o.Number)
}

// claim returns a non-nil Result when key already completed.
func (e *Engine) claim(ctx context.Context, key string, o Order) (*Result, error) {
	if e.deps.Idempotency == nil {
		return nil, nil
	}

	hash, err := requestHash(o)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	stored, err := e.deps.Idempotency.AcquireKey(ctx, key, o.StaffName, OperationSubmit, hash)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}

	var res Result
	if err := json.Unmarshal(stored, &res); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("decode stored settlement: %w", err))
	}
	res.Replayed = true

	logger.Info(ctx, "settlement replayed", "key", key, "order_number", res.OrderNumber)
	return &res, nil
}

func (e *Engine) release(ctx context.Context, key string) {
	if key == "" || e.deps.Idempotency == nil {
		return
	}
	if err := e.deps.Idempotency.ReleaseKey(ctx, key); err != nil {
		logger.Warn(ctx, "release idempotency key", "key", key, "error", err)
	}
}

// requestHash fingerprints the payload a key was first used with.
// Date is excluded because it defaults to the settlement time.
func requestHash(o Order) (string, error) {
	o.IdempotencyKey = ""
	o.Date = nil
	b, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("hash order: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func (e *Engine) writeHeader(ctx context.Context, o *Order) {
	if e.deps.Orders == nil {
		return
	}
	h := &Header{
		Number:        o.Number,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		StaffName:     o.StaffName,
		PaymentMethod: o.PaymentMethod,
		Status:        StatusConfirmed,
		TotalAmount:   o.Total(),
		LineCount:     len(o.Lines),
		OrderDate:     *o.Date,
	}
	if err := e.deps.Orders.Create(ctx, h); err != nil {
		logger.Warn(ctx, "order header not saved", "order_number", o.Number, "error", err)
	}
}

func (e *Engine) settleLines(ctx context.Context, o *Order) []LineResult {
	results := make([]LineResult, len(o.Lines))

	var g errgroup.Group
	g.SetLimit(e.cfg.MaxLineWorkers)
	for i := range o.Lines {
		g.Go(func() error {
			results[i] = e.settleLine(ctx, o, i)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// settleLine writes the history row, then decrements stock.
// A history failure ends the line with stock untouched.
// A stock failure leaves the line recorded with a warning.
func (e *Engine) settleLine(ctx context.Context, o *Order, idx int) LineResult {
	line := o.Lines[idx]
	res := LineResult{
		LineIndex:   idx,
		ProductID:   line.ProductID,
		ProductName: strings.TrimSpace(line.ProductName),
		Quantity:    line.Quantity,
		Total:       line.Total(),
	}

	product, resolveErr := e.deps.Inventory.Resolve(ctx, line.ProductID, res.ProductName)
	if resolveErr == nil {
		if res.ProductName == "" {
			res.ProductName = product.Name
		}
		if line.Category == "" {
			line.Category = product.Category
		}
		if line.Unit == "" {
			line.Unit = product.Unit
		}
	}

	hist := purchase.NewLine(o.Number, o.CustomerID, res.ProductName, line.Category, line.Unit,
		line.Quantity, line.UnitPrice, *o.Date, o.StaffName)
	lineID, err := e.deps.Purchases.Append(ctx, hist)
	if err != nil {
		appErr := apperror.NewPersistenceFailure("purchase history line", err)
		res.ErrorCode = appErr.Code
		res.Error = appErr.Message
		logger.Error(ctx, "history line not saved",
			"order_number", o.Number,
			"line", idx,
			"product", res.ProductName,
			"error", err,
		)
		return res
	}
	res.LineID = lineID

	if resolveErr != nil {
		if apperror.IsNotFound(resolveErr) {
			res.StockUpdateError = ProductNotFoundWarning
		} else {
			res.StockUpdateError = resolveErr.Error()
		}
		logger.Warn(ctx, "stock not updated",
			"order_number", o.Number,
			"product", res.ProductName,
			"reason", res.StockUpdateError,
		)
		return res
	}

	res.ProductID = &product.ID
	change, err := e.deps.Inventory.Decrement(ctx, product.ID, line.Quantity)
	if err != nil {
		res.StockUpdateError = err.Error()
		logger.Warn(ctx, "stock decrement failed",
			"order_number", o.Number,
			"product_id", product.ID,
			"error", err,
		)
		return res
	}

	before, after := change.Before, change.After
	res.StockBefore = &before
	res.StockAfter = &after
	res.Decremented = change.Decremented()
	res.OutOfStock = change.OutOfStock()
	return res
}

// publish writes the outbox event and audit entry. Both are best effort.
func (e *Engine) publish(ctx context.Context, res *Result) {
	if e.deps.Events == nil && e.deps.Audit == nil {
		return
	}

	payload := map[string]any{
		"orderNumber":        res.OrderNumber,
		"customerId":         res.CustomerID,
		"lineCount":          res.Summary.LineCount,
		"settledCount":       res.Summary.SettledCount,
		"failedCount":        res.Summary.FailedCount,
		"outOfStockProducts": res.Summary.OutOfStockProductNames,
		"totalAmount":        res.Summary.TotalAmount.String(),
	}

	write := func(ctx context.Context) error {
		if e.deps.Events != nil {
			if err := e.deps.Events.Publish(ctx, Event{
				AggregateType: AggregateOrder,
				AggregateID:   res.OrderNumber,
				EventType:     EventOrderSettled,
				Payload:       payload,
			}); err != nil {
				return fmt.Errorf("publish event: %w", err)
			}
		}
		if e.deps.Audit != nil {
			changes := map[string]any{"summary": payload, "lines": res.Lines}
			if err := e.deps.Audit.LogChange(ctx, AggregateOrder, res.OrderNumber, "settle", changes); err != nil {
				return fmt.Errorf("audit: %w", err)
			}
		}
		return nil
	}

	var err error
	if e.deps.TxManager != nil {
		err = e.deps.TxManager.RunInTransaction(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		logger.Warn(ctx, "settlement event not recorded", "order_number", res.OrderNumber, "error", err)
	}
}
