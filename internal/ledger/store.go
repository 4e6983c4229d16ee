package ledger

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ViewMode selects whether reads and writes address one member or the family.
type ViewMode string

const (
	ViewIndividual ViewMode = "individual"
	ViewFamily     ViewMode = "family"
)

// Options configures a new Store.
type Options struct {
	BaseCurrency models.CurrencyCode
	Rates        models.ExchangeRates
	Members      []models.FamilyMember
	Descriptions []string

	// Now and NewID default to time.Now and UUIDv7 strings.
	Now   func() time.Time
	NewID func() string
}

// Store is the in-memory financial state of one session. Every exported method
// is a single atomic transition.
type Store struct {
	mu sync.Mutex

	base    models.CurrencyCode
	rates   models.ExchangeRates
	members []models.FamilyMember
	users   map[string]*models.UserFinancials

	descriptions   []string
	descriptionSet map[string]struct{}

	activeUser string
	viewMode   ViewMode

	// importedSources keys finished imports by user and source name.
	importedSources map[importKey]struct{}
	// pendingArchive holds closed months not yet stored durably.
	pendingArchive []ClosedMonth

	now   func() time.Time
	newID func() string
}

// NewStore creates one empty ledger per roster member. The first member is
// the active user and the view starts as individual.
func NewStore(opts Options) (*Store, error) {
	if len(opts.Members) == 0 {
		return nil, ErrNoMembers
	}
	base := opts.BaseCurrency
	if base == "" {
		base = models.CurrencyCOP
	}
	if !base.Valid() {
		return nil, fmt.Errorf("invalid base currency %q: %w", base, models.ErrInvalidCurrency)
	}
	rates := opts.Rates
	if rates == nil {
		rates = models.DefaultExchangeRates()
	}
	rates = rates.Clone()
	rates[models.AnchorCurrency] = decimal.NewFromInt(1)

	s := &Store{
		base:            base,
		rates:           rates,
		members:         append([]models.FamilyMember{}, opts.Members...),
		users:           make(map[string]*models.UserFinancials, len(opts.Members)),
		descriptionSet:  make(map[string]struct{}),
		activeUser:      opts.Members[0].ID,
		viewMode:        ViewIndividual,
		importedSources: make(map[importKey]struct{}),
		now:             opts.Now,
		newID:           opts.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = newTimeOrderedID
	}

	month := models.MonthLabel(s.now())
	for _, m := range s.members {
		if _, dup := s.users[m.ID]; dup {
			return nil, fmt.Errorf("duplicate family member id %q", m.ID)
		}
		s.users[m.ID] = models.NewUserFinancials(month)
	}
	for _, d := range opts.Descriptions {
		s.rememberDescription(d)
	}

	slog.Info("financial state initialized", "members", len(s.members), "base_currency", string(base))
	return s, nil
}

func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func (s *Store) converter() models.Converter {
	return models.NewConverter(s.rates)
}

// active returns the active member's ledger, refusing when the family view is
// selected. Callers hold s.mu.
func (s *Store) active() (*models.UserFinancials, error) {
	if s.viewMode == ViewFamily {
		return nil, ErrFamilyViewReadOnly
	}
	u, ok := s.users[s.activeUser]
	if !ok {
		return nil, ErrUnknownUser
	}
	return u, nil
}

// IncomeRequest describes an income to record for the active user.
type IncomeRequest struct {
	Amount      decimal.Decimal                  `json:"amount"`
	Currency    models.CurrencyCode              `json:"currency"`
	Description string                           `json:"description"`
	Mode        DistributionMode                 `json:"mode"`
	Manual      map[models.JarID]decimal.Decimal `json:"manualAllocations,omitempty"`
	IsPassive   bool                             `json:"isPassive"`
}

// IncomeResult is the recorded transaction and how it was spread.
type IncomeResult struct {
	Transaction models.Transaction `json:"transaction"`
	Allocation  Allocation         `json:"allocation"`
}

// RecordIncome distributes an income across the active user's jars.
func (s *Store) RecordIncome(req IncomeRequest) (IncomeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.active()
	if err != nil {
		return IncomeResult{}, err
	}
	return s.recordIncome(u, req, s.now())
}

func (s *Store) recordIncome(u *models.UserFinancials, req IncomeRequest, at time.Time) (IncomeResult, error) {
	if !req.Amount.IsPositive() {
		return IncomeResult{}, ErrInvalidAmount
	}
	if req.Currency == "" {
		req.Currency = s.base
	}
	if !req.Currency.Valid() {
		return IncomeResult{}, models.ErrInvalidCurrency
	}

	conv := s.converter()
	amountBase := conv.Convert(req.Amount, req.Currency, s.base)

	var alloc Allocation
	switch req.Mode {
	case "", DistributionAuto:
		alloc = AutoDistribute(amountBase, u.Jars)
	case DistributionManual:
		var err error
		alloc, err = ManualDistribute(req.Amount, req.Manual, req.Currency, s.base, conv)
		if err != nil {
			slog.Warn("manual distribution rejected", "amount", req.Amount.String(), "error", err)
			return IncomeResult{}, err
		}
	default:
		return IncomeResult{}, ErrInvalidMode
	}
	return s.applyIncome(u, req, alloc, amountBase, at), nil
}

func (s *Store) applyIncome(u *models.UserFinancials, req IncomeRequest, alloc Allocation, amountBase decimal.Decimal, at time.Time) IncomeResult {
	jars := u.Jars
	for _, id := range models.AllJars {
		jars[id].Balance = jars[id].Balance.Add(alloc[id])
	}

	tx := models.Transaction{
		ID:          s.newID(),
		Date:        at,
		Description: describe(req.Description, "Ingreso"),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Type:        models.TransactionIncome,
		IsPassive:   req.IsPassive,
	}
	s.commit(u, jars, tx, req.Description, amountBase)
	return IncomeResult{Transaction: tx, Allocation: alloc}
}

// ExpenseRequest describes an expense to record for the active user. JarID is
// required; a request without one fails with models.ErrUnknownJar.
type ExpenseRequest struct {
	Amount           decimal.Decimal     `json:"amount"`
	Currency         models.CurrencyCode `json:"currency"`
	Description      string              `json:"description"`
	JarID            *models.JarID       `json:"jarId"`
	ConfirmOverdraft bool                `json:"confirmOverdraft"`
	IsPassive        bool                `json:"isPassive"`
}

// RecordExpense debits one jar. When the jar cannot cover the expense the call
// fails with ErrInsufficientJarBalance unless ConfirmOverdraft is set, in which
// case the balance is allowed to go negative.
func (s *Store) RecordExpense(req ExpenseRequest) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.active()
	if err != nil {
		return models.Transaction{}, err
	}
	return s.recordExpense(u, req, s.now())
}

func (s *Store) recordExpense(u *models.UserFinancials, req ExpenseRequest, at time.Time) (models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return models.Transaction{}, ErrInvalidAmount
	}
	if req.Currency == "" {
		req.Currency = s.base
	}
	if !req.Currency.Valid() {
		return models.Transaction{}, models.ErrInvalidCurrency
	}
	if req.JarID == nil || !req.JarID.Valid() {
		return models.Transaction{}, models.ErrUnknownJar
	}
	jarID := *req.JarID

	amountBase := s.converter().Convert(req.Amount, req.Currency, s.base)

	jars := u.Jars
	jar := jars.Get(jarID)
	if jar.Balance.LessThan(amountBase) {
		if !req.ConfirmOverdraft {
			return models.Transaction{}, ErrInsufficientJarBalance
		}
		slog.Warn("jar overdraft confirmed",
			"jar", jarID.String(),
			"balance", jar.Balance.String(),
			"amount_base", amountBase.String(),
		)
	}
	jar.Balance = jar.Balance.Sub(amountBase)

	tx := models.Transaction{
		ID:          s.newID(),
		Date:        at,
		Description: describe(req.Description, "Gasto"),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Type:        models.TransactionExpense,
		JarID:       &jarID,
		IsPassive:   req.IsPassive,
	}
	s.commit(u, jars, tx, req.Description, amountBase)
	return tx, nil
}

func describe(d, fallback string) string {
	if d = strings.TrimSpace(d); d == "" {
		return fallback
	}
	return d
}

// ExpensePreview tells a form whether an expense would overdraw its jar.
type ExpensePreview struct {
	AmountBase     decimal.Decimal     `json:"amountBase"`
	BaseCurrency   models.CurrencyCode `json:"baseCurrency"`
	JarBalance     decimal.Decimal     `json:"jarBalance"`
	ExceedsBalance bool                `json:"exceedsBalance"`
}

// PreviewExpense computes the overdraft advisory against the displayed jars
// without changing anything.
func (s *Store) PreviewExpense(amount decimal.Decimal, currency models.CurrencyCode, jarID *models.JarID) (ExpensePreview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if currency == "" {
		currency = s.base
	}
	if !currency.Valid() {
		return ExpensePreview{}, models.ErrInvalidCurrency
	}
	if jarID == nil || !jarID.Valid() {
		return ExpensePreview{}, models.ErrUnknownJar
	}

	view := s.displayed()
	amountBase := s.converter().Convert(amount, currency, s.base)
	balance := view.Jars[*jarID].Balance
	return ExpensePreview{
		AmountBase:     amountBase,
		BaseCurrency:   s.base,
		JarBalance:     balance,
		ExceedsBalance: balance.LessThan(amountBase),
	}, nil
}

// SaveJarConfig replaces name, description, percentage and color of all six
// jars. Balances are untouched. A configuration that does not add up to 100%
// is returned as *PercentageSumWarning unless confirmed.
func (s *Store) SaveJarConfig(cfg models.JarRegistry, confirmUnbalanced bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.active()
	if err != nil {
		return err
	}

	total := cfg.TotalPercentage()
	if !total.Equal(hundred) {
		if !confirmUnbalanced {
			return &PercentageSumWarning{Total: total}
		}
		slog.Warn("saving jar configuration that does not add up to 100%", "user_id", s.activeUser, "total", total.String())
	}

	u.Jars = u.Jars.WithConfig(cfg)
	slog.Info("jar configuration saved", "user_id", s.activeUser)
	return nil
}

// AddAsset stores a new asset owned by the active user.
func (s *Store) AddAsset(a models.Asset) (models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.active()
	if err != nil {
		return models.Asset{}, err
	}
	a.Normalize()
	if err := a.Validate(); err != nil {
		return models.Asset{}, err
	}
	a.ID = s.newID()
	a.OwnerID = s.activeUser
	u.Assets = append(u.Assets, a)

	slog.Info("asset added", "asset_id", a.ID, "user_id", a.OwnerID, "name", a.Name)
	return a, nil
}

// DeleteAsset removes an asset of the active user.
func (s *Store) DeleteAsset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.active()
	if err != nil {
		return err
	}
	for i, a := range u.Assets {
		if a.ID == id {
			u.Assets = append(u.Assets[:i:i], u.Assets[i+1:]...)
			slog.Info("asset deleted", "asset_id", id, "user_id", s.activeUser)
			return nil
		}
	}
	return fmt.Errorf("asset %s: %w", id, ErrNotFound)
}

// AddLiability stores a new liability owned by the active user.
func (s *Store) AddLiability(l models.Liability) (models.Liability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.active()
	if err != nil {
		return models.Liability{}, err
	}
	l.Normalize()
	if err := l.Validate(); err != nil {
		return models.Liability{}, err
	}
	l.ID = s.newID()
	l.OwnerID = s.activeUser
	u.Liabilities = append(u.Liabilities, l)

	slog.Info("liability added", "liability_id", l.ID, "user_id", l.OwnerID, "name", l.Name)
	return l, nil
}

// UpdateLiability replaces every editable field of the liability with id,
// keeping its id and owner.
func (s *Store) UpdateLiability(id string, fields models.Liability) (models.Liability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.active()
	if err != nil {
		return models.Liability{}, err
	}
	fields.Normalize()
	if err := fields.Validate(); err != nil {
		return models.Liability{}, err
	}
	for i := range u.Liabilities {
		if u.Liabilities[i].ID != id {
			continue
		}
		fields.ID = u.Liabilities[i].ID
		fields.OwnerID = u.Liabilities[i].OwnerID
		u.Liabilities[i] = fields
		slog.Info("liability updated", "liability_id", id, "user_id", s.activeUser)
		return fields, nil
	}
	return models.Liability{}, fmt.Errorf("liability %s: %w", id, ErrNotFound)
}

// DeleteLiability removes a liability of the active user.
func (s *Store) DeleteLiability(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.active()
	if err != nil {
		return err
	}
	for i, l := range u.Liabilities {
		if l.ID == id {
			u.Liabilities = append(u.Liabilities[:i:i], u.Liabilities[i+1:]...)
			slog.Info("liability deleted", "liability_id", id, "user_id", s.activeUser)
			return nil
		}
	}
	return fmt.Errorf("liability %s: %w", id, ErrNotFound)
}

// SetExchangeRates replaces the USD and EUR rates and optionally the base
// currency. Changing the base re-expresses every jar balance and stats entry
// in the new base: old base to COP with the old rates, COP to the new base
// with the new ones.
func (s *Store) SetExchangeRates(usd, eur decimal.Decimal, newBase *models.CurrencyCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !usd.IsPositive() || !eur.IsPositive() {
		return ErrInvalidRate
	}
	target := s.base
	if newBase != nil {
		if !newBase.Valid() {
			return models.ErrInvalidCurrency
		}
		target = *newBase
	}

	newRates := s.rates.Clone()
	newRates[models.CurrencyUSD] = usd
	newRates[models.CurrencyEUR] = eur

	if target != s.base {
		oldConv := models.NewConverter(s.rates)
		newConv := models.NewConverter(newRates)
		rebase := func(v decimal.Decimal) decimal.Decimal {
			return newConv.Convert(oldConv.Convert(v, s.base, models.AnchorCurrency), models.AnchorCurrency, target)
		}
		for _, u := range s.users {
			for _, id := range models.AllJars {
				u.Jars[id].Balance = rebase(u.Jars[id].Balance)
			}
			for i := range u.MonthlyStats {
				st := &u.MonthlyStats[i]
				st.Income = rebase(st.Income)
				st.Expenses = rebase(st.Expenses)
				st.NetWorth = rebase(st.NetWorth)
			}
		}
		slog.Info("base currency changed", "from", string(s.base), "to", string(target))
	}

	s.rates = newRates
	s.base = target
	slog.Info("exchange rates updated", "usd", usd.String(), "eur", eur.String(), "base_currency", string(target))
	return nil
}

// SwitchUser makes another roster member the active user.
func (s *Store) SwitchUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, id)
	}
	s.activeUser = id
	slog.Info("active user switched", "user_id", id)
	return nil
}

// SetViewMode selects the individual or family view.
func (s *Store) SetViewMode(mode ViewMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case ViewIndividual, ViewFamily:
	default:
		return ErrInvalidViewMode
	}
	s.viewMode = mode
	slog.Info("view mode changed", "view_mode", string(mode))
	return nil
}

// State is a read-only snapshot of the session.
type State struct {
	BaseCurrency      models.CurrencyCode   `json:"baseCurrency"`
	ExchangeRates     models.ExchangeRates  `json:"exchangeRates"`
	Members           []models.FamilyMember `json:"members"`
	ActiveUserID      string                `json:"activeUserId"`
	ViewMode          ViewMode              `json:"viewMode"`
	SavedDescriptions []string              `json:"savedDescriptions"`
}

// Snapshot returns the session-wide settings.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		BaseCurrency:      s.base,
		ExchangeRates:     s.rates.Clone(),
		Members:           append([]models.FamilyMember{}, s.members...),
		ActiveUserID:      s.activeUser,
		ViewMode:          s.viewMode,
		SavedDescriptions: append([]string{}, s.descriptions...),
	}
}

// Displayed returns the active user's financials, or the family rollup when the
// family view is selected.
func (s *Store) Displayed() models.UserFinancials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed()
}

func (s *Store) displayed() models.UserFinancials {
	if s.viewMode == ViewFamily {
		return FamilyView(s.members, s.users)
	}
	return s.users[s.activeUser].Clone()
}

// User returns a copy of one member's financials.
func (s *Store) User(id string) (models.UserFinancials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.UserFinancials{}, fmt.Errorf("%w: %s", ErrUnknownUser, id)
	}
	return u.Clone(), nil
}

// Member looks up a roster entry.
func (s *Store) Member(id string) (models.FamilyMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.members {
		if m.ID == id {
			return m, true
		}
	}
	return models.FamilyMember{}, false
}

// Converter returns a converter over a copy of the current rates together with
// the base currency.
func (s *Store) Converter() (models.Converter, models.CurrencyCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.NewConverter(s.rates.Clone()), s.base
}
