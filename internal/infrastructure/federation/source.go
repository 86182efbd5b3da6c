// Package federation reads the externally-owned billing tables through a
// separate read-only connection.
package federation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/isp/backend/internal/domain/legacy"
	"github.com/isp/backend/internal/infrastructure/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultQueryTimeout = 5 * time.Second

const invoicesByContractQuery = `
SELECT factura_interna, contrato,
       COALESCE(cod_concesion, '') AS cod_concesion,
       COALESCE(periodo_desde, '') AS periodo_desde,
       COALESCE(periodo_hasta, '') AS periodo_hasta,
       COALESCE(telefono, '') AS telefono,
       fecha_envio, fecha_emision,
       COALESCE(periodo, '') AS periodo,
       COALESCE(monto_total, 0) AS monto_total,
       COALESCE(monto_cf, 0) AS monto_cf,
       COALESCE(monto_cotel, 0) AS monto_cotel,
       COALESCE(monto_cotel_cf, 0) AS monto_cotel_cf,
       COALESCE(nombre_factura, '') AS nombre_factura,
       COALESCE(ruc_factura, '') AS ruc_factura,
       COALESCE(no_autorizacion, '') AS no_autorizacion,
       COALESCE(f_limite, '') AS f_limite,
       COALESCE(cod_control, '') AS cod_control,
       COALESCE(estado, '') AS estado,
       COALESCE(movimiento, '') AS movimiento,
       f_actualizacion,
       COALESCE(id_transaccion, '') AS id_transaccion,
       COALESCE(estado_transac, '') AS estado_transac
FROM cobfactu
WHERE contrato = $1
ORDER BY fecha_emision DESC NULLS LAST, factura_interna`

const servicesByClientQuery = `
SELECT contrato,
       COALESCE(ampliacion, '') AS ampliacion,
       cod_cliente,
       COALESCE(plan_comercial, '') AS plan_comercial,
       COALESCE(forma_pago, '') AS forma_pago,
       COALESCE(direccion, '') AS direccion,
       COALESCE(cod_acci_contrato, '') AS cod_acci_contrato,
       COALESCE(cod_estado_contrato, '') AS cod_estado_contrato,
       anulado,
       COALESCE(concesion, '') AS concesion,
       COALESCE(cod_servicio, '') AS cod_servicio
FROM servicios_cliente
WHERE cod_cliente = $1
ORDER BY contrato`

const clientsByDocumentQuery = `
SELECT CAST(cod_cliente AS TEXT) AS cod_cliente,
       COALESCE(ape_paterno, '') AS ape_paterno,
       COALESCE(ape_materno, '') AS ape_materno,
       COALESCE(nombres, '') AS nombres,
       COALESCE(nombre_pila, '') AS nombre_pila,
       COALESCE(direccion, '') AS direccion,
       COALESCE(cod_documento, '') AS cod_documento,
       COALESCE(CAST(nro_documento AS TEXT), '') AS nro_documento,
       COALESCE(tipo_personeria, '') AS tipo_personeria,
       COALESCE(telefono_ref, '') AS telefono_ref,
       COALESCE(abonado, '') AS abonado,
       COALESCE(email, '') AS email,
       COALESCE(nombre_factura, '') AS nombre_factura,
       COALESCE(zona_cod_zona, '') AS zona_cod_zona,
       COALESCE(zona_ciud_cod_ciudad, '') AS zona_ciud_cod_ciudad
FROM clientes
WHERE TRIM(CAST(nro_documento AS TEXT)) = $1
ORDER BY cod_cliente`

type invoiceRow struct {
	InternalNumber      string          `db:"factura_interna"`
	Contract            string          `db:"contrato"`
	ConcessionCode      string          `db:"cod_concesion"`
	PeriodFrom          string          `db:"periodo_desde"`
	PeriodTo            string          `db:"periodo_hasta"`
	Phone               string          `db:"telefono"`
	SentOn              sql.NullTime    `db:"fecha_envio"`
	IssuedOn            sql.NullTime    `db:"fecha_emision"`
	Period              string          `db:"periodo"`
	TotalAmount         decimal.Decimal `db:"monto_total"`
	CFAmount            decimal.Decimal `db:"monto_cf"`
	CotelAmount         decimal.Decimal `db:"monto_cotel"`
	CotelCFAmount       decimal.Decimal `db:"monto_cotel_cf"`
	InvoiceName         string          `db:"nombre_factura"`
	InvoiceTaxID        string          `db:"ruc_factura"`
	AuthorizationNumber string          `db:"no_autorizacion"`
	DueLimit            string          `db:"f_limite"`
	ControlCode         string          `db:"cod_control"`
	Status              string          `db:"estado"`
	Movement            string          `db:"movimiento"`
	UpdatedOn           sql.NullTime    `db:"f_actualizacion"`
	TransactionID       string          `db:"id_transaccion"`
	TransactionStatus   string          `db:"estado_transac"`
}

func (r invoiceRow) toDomain() legacy.Invoice {
	return legacy.Invoice{
		InternalNumber:      r.InternalNumber,
		Contract:            r.Contract,
		ConcessionCode:      r.ConcessionCode,
		PeriodFrom:          r.PeriodFrom,
		PeriodTo:            r.PeriodTo,
		Phone:               r.Phone,
		SentOn:              timePtr(r.SentOn),
		IssuedOn:            timePtr(r.IssuedOn),
		Period:              r.Period,
		TotalAmount:         r.TotalAmount,
		CFAmount:            r.CFAmount,
		CotelAmount:         r.CotelAmount,
		CotelCFAmount:       r.CotelCFAmount,
		InvoiceName:         r.InvoiceName,
		InvoiceTaxID:        r.InvoiceTaxID,
		AuthorizationNumber: r.AuthorizationNumber,
		DueLimit:            r.DueLimit,
		ControlCode:         r.ControlCode,
		Status:              r.Status,
		Movement:            r.Movement,
		UpdatedOn:           timePtr(r.UpdatedOn),
		TransactionID:       r.TransactionID,
		TransactionStatus:   r.TransactionStatus,
	}
}

type serviceRow struct {
	Contract           string         `db:"contrato"`
	Extension          string         `db:"ampliacion"`
	ClientCode         string         `db:"cod_cliente"`
	CommercialPlan     string         `db:"plan_comercial"`
	PaymentMethod      string         `db:"forma_pago"`
	Address            string         `db:"direccion"`
	ContractActionCode string         `db:"cod_acci_contrato"`
	ContractStatusCode string         `db:"cod_estado_contrato"`
	Voided             sql.NullString `db:"anulado"`
	Concession         string         `db:"concesion"`
	ServiceCode        string         `db:"cod_servicio"`
}

func (r serviceRow) toDomain() legacy.ServiceContract {
	s := legacy.ServiceContract{
		Contract:           r.Contract,
		Extension:          r.Extension,
		ClientCode:         r.ClientCode,
		CommercialPlan:     r.CommercialPlan,
		PaymentMethod:      r.PaymentMethod,
		Address:            r.Address,
		ContractActionCode: r.ContractActionCode,
		ContractStatusCode: r.ContractStatusCode,
		Concession:         r.Concession,
		ServiceCode:        r.ServiceCode,
	}
	if r.Voided.Valid {
		v := r.Voided.String
		s.Voided = &v
	}
	return s
}

type clientRow struct {
	ClientCode     string `db:"cod_cliente"`
	PaternalName   string `db:"ape_paterno"`
	MaternalName   string `db:"ape_materno"`
	GivenNames     string `db:"nombres"`
	DisplayName    string `db:"nombre_pila"`
	Address        string `db:"direccion"`
	DocumentType   string `db:"cod_documento"`
	DocumentNumber string `db:"nro_documento"`
	PersonType     string `db:"tipo_personeria"`
	ReferencePhone string `db:"telefono_ref"`
	Subscriber     string `db:"abonado"`
	Email          string `db:"email"`
	InvoiceName    string `db:"nombre_factura"`
	ZoneCode       string `db:"zona_cod_zona"`
	CityCode       string `db:"zona_ciud_cod_ciudad"`
}

func (r clientRow) toDomain() legacy.LegacyClient {
	return legacy.LegacyClient{
		ClientCode:     r.ClientCode,
		PaternalName:   r.PaternalName,
		MaternalName:   r.MaternalName,
		GivenNames:     r.GivenNames,
		DisplayName:    r.DisplayName,
		Address:        r.Address,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
		PersonType:     r.PersonType,
		ReferencePhone: r.ReferencePhone,
		Subscriber:     r.Subscriber,
		Email:          r.Email,
		InvoiceName:    r.InvoiceName,
		ZoneCode:       r.ZoneCode,
		CityCode:       r.CityCode,
	}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// SQLSource implements legacy.FederatedSource with plain SQL over sqlx
type SQLSource struct {
	db      *sqlx.DB
	timeout time.Duration
	logger  *zap.Logger
}

// New wraps an existing connection
func New(db *sqlx.DB, timeout time.Duration, logger *zap.Logger) *SQLSource {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLSource{db: db, timeout: timeout, logger: logger}
}

// Open connects to the federation DSN (the main database when unset)
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*SQLSource, error) {
	db, err := sqlx.Open("postgres", cfg.FederationDSN())
	if err != nil {
		return nil, fmt.Errorf("open federated source: %w", err)
	}
	if cfg.Federation.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Federation.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Federation.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping federated source: %w", err)
	}

	return New(db, cfg.Federation.QueryTimeout, logger), nil
}

// Close releases the underlying pool
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// Ping checks that the federated database answers
func (s *SQLSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InvoicesByContract returns the billing records of a contract, newest first
func (s *SQLSource) InvoicesByContract(ctx context.Context, contract string) ([]legacy.Invoice, error) {
	var rows []invoiceRow
	if err := s.selectRows(ctx, &rows, invoicesByContractQuery, contract); err != nil {
		return nil, fmt.Errorf("query cobfactu: %w", err)
	}
	out := make([]legacy.Invoice, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// ServicesByClient returns the service lines of a client
func (s *SQLSource) ServicesByClient(ctx context.Context, clientCode string) ([]legacy.ServiceContract, error) {
	var rows []serviceRow
	if err := s.selectRows(ctx, &rows, servicesByClientQuery, clientCode); err != nil {
		return nil, fmt.Errorf("query servicios_cliente: %w", err)
	}
	out := make([]legacy.ServiceContract, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// ClientsByDocument returns every client registered under a document number
func (s *SQLSource) ClientsByDocument(ctx context.Context, documentNumber string) ([]legacy.LegacyClient, error) {
	var rows []clientRow
	if err := s.selectRows(ctx, &rows, clientsByDocumentQuery, documentNumber); err != nil {
		return nil, fmt.Errorf("query clientes: %w", err)
	}
	out := make([]legacy.LegacyClient, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *SQLSource) selectRows(ctx context.Context, dest any, query string, arg string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.db.SelectContext(ctx, dest, query, arg)
	s.logger.Debug("federated query",
		zap.String("arg", arg),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	return err
}

var _ legacy.FederatedSource = (*SQLSource)(nil)
