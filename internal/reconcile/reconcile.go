// Package reconcile turns a parsed relay submission (nickname plus free-form
// item lines) into a fully-typed order: every line is bound to a catalog
// product and spec, its unit price is frozen, and the buyer is linked to a
// directory customer when exactly one deterministic match exists.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/jielong/internal/actionlog"
	catalogdomain "github.com/smallbiznis/jielong/internal/catalog/domain"
	"github.com/smallbiznis/jielong/internal/clock"
	directorydomain "github.com/smallbiznis/jielong/internal/directory/domain"
	ledgerdomain "github.com/smallbiznis/jielong/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the reconciler.
var Module = fx.Module("reconcile.service", fx.Provide(New))

// ParsedItem is one raw line from the upstream text parser. Quantity arrives
// as a JSON number, so integrality is validated here, not assumed.
type ParsedItem struct {
	ProductName string  `json:"productName"`
	SpecName    string  `json:"specName,omitempty"`
	Quantity    float64 `json:"quantity"`
}

// ParsedJielong is the contract with the upstream chat-text parser.
type ParsedJielong struct {
	WechatNickname string       `json:"wechatNickname"`
	Items          []ParsedItem `json:"items"`
}

var (
	ErrMissingNickname = errors.New("missing_wechat_nickname")
	ErrNoValidItems    = errors.New("no_valid_items")
)

type Params struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Catalog   catalogdomain.Service
	Directory directorydomain.Service
	Ledger    ledgerdomain.Service
	Recorder  *actionlog.Recorder
}

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	clk       clock.Clock
	catalog   catalogdomain.Service
	directory directorydomain.Service
	ledger    ledgerdomain.Service
	recorder  *actionlog.Recorder
}

func New(p Params) *Service {
	return &Service{
		log:       p.Log.Named("reconcile.service"),
		genID:     p.GenID,
		clk:       p.Clock,
		catalog:   p.Catalog,
		directory: p.Directory,
		ledger:    p.Ledger,
		recorder:  p.Recorder,
	}
}

// Reconcile resolves the submission into an order and appends it to the
// ledger. Lines with invalid quantities are dropped; lines whose product is
// unknown are carried at unit price zero so the operator can correct them
// instead of losing the submission. Both paths emit a WARNING entry. The
// order fails only when no line survives.
func (s *Service) Reconcile(ctx context.Context, req ParsedJielong) (ledgerdomain.Order, error) {
	nickname := strings.TrimSpace(req.WechatNickname)
	if nickname == "" {
		s.recorder.Warning("relay submission rejected: missing nickname")
		return ledgerdomain.Order{}, ErrMissingNickname
	}

	var (
		items      []ledgerdomain.OrderItem
		dropped    int
		unresolved int
		fallbacks  int
	)
	for _, raw := range req.Items {
		// Quantities beyond int32 are treated as garbage input: a float64
		// that large would silently overflow the int conversion below.
		if raw.Quantity <= 0 || raw.Quantity != math.Trunc(raw.Quantity) || raw.Quantity > math.MaxInt32 {
			dropped++
			s.recorder.Warning(fmt.Sprintf(
				"dropped line %q for %s: quantity %v is not a usable positive integer",
				raw.ProductName, nickname, raw.Quantity))
			continue
		}

		item := ledgerdomain.OrderItem{
			ID:          s.genID.Generate().String(),
			ProductName: raw.ProductName,
			SpecName:    raw.SpecName,
			Quantity:    int(raw.Quantity),
		}

		product, found := s.catalog.FindByName(ctx, raw.ProductName)
		switch {
		case !found:
			// Carried at zero so the submission survives for manual repair.
			unresolved++
			s.recorder.Warning(fmt.Sprintf(
				"product %q not in catalog; line carried at price 0 for manual correction",
				raw.ProductName))
		case raw.SpecName != "":
			spec, ok := findSpec(product, raw.SpecName)
			if ok {
				item.PriceAtTime = spec.Price
			} else {
				item.PriceAtTime = product.Price
				fallbacks++
				s.recorder.Warning(fmt.Sprintf(
					"spec %q not found on product %q; fell back to base price",
					raw.SpecName, product.Name))
			}
		default:
			item.PriceAtTime = product.Price
		}

		items = append(items, item)
	}

	if len(items) == 0 {
		s.recorder.Warning(fmt.Sprintf(
			"relay submission from %s rejected: no valid lines (%d dropped)", nickname, dropped))
		return ledgerdomain.Order{}, ErrNoValidItems
	}

	order := ledgerdomain.Order{
		ID:              s.genID.Generate().String(),
		WechatNickname:  nickname,
		Items:           items,
		TotalAmount:     ledgerdomain.Total(items),
		Status:          ledgerdomain.StatusPendingPayment,
		Timestamp:       s.clk.Now().UnixMilli(),
		MatchedCustomer: s.matchCustomer(ctx, nickname),
	}

	created, err := s.ledger.Append(ctx, order)
	if err != nil {
		return ledgerdomain.Order{}, err
	}
	s.log.Debug("order reconciled",
		zap.String("order_id", created.ID),
		zap.String("nickname", nickname),
		zap.Int("items", len(items)))

	if dropped > 0 || unresolved > 0 || fallbacks > 0 {
		s.recorder.Warning(fmt.Sprintf(
			"order %s created for %s with issues: %d lines kept, %d unresolved, %d at base price, %d dropped",
			created.ID, nickname, len(items), unresolved, fallbacks, dropped))
	} else {
		s.recorder.Success(fmt.Sprintf(
			"order %s created for %s: %d lines, total %.2f",
			created.ID, nickname, len(items), created.TotalAmount))
	}
	return created, nil
}

// matchCustomer binds a value snapshot of the directory record. With
// duplicate nicknames the most recently added record wins; the directory
// returns matches in stored (creation) order, so that is the last one.
func (s *Service) matchCustomer(ctx context.Context, nickname string) *directorydomain.Customer {
	matches := s.directory.FindByNickname(ctx, nickname)
	if len(matches) == 0 {
		return nil
	}
	snapshot := matches[len(matches)-1]
	return &snapshot
}

func findSpec(product catalogdomain.Product, name string) (catalogdomain.ProductSpec, bool) {
	for _, spec := range product.Specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return catalogdomain.ProductSpec{}, false
}
