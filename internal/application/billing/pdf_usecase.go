package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

// PDFUseCase genera la versión imprimible (PDF) de una factura.
type PDFUseCase struct {
	billRepo     repository.BillRepository
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	generator    BillPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	billRepo repository.BillRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
	generator BillPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		billRepo:     billRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		generator:    generator,
	}
}

// DownloadBillPDF carga la factura, su cliente y líneas, y genera el PDF.
// El nombre de empresa del encabezado es el del usuario que la emitió.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - *domain.NotFoundError si la factura no existe.
func (uc *PDFUseCase) DownloadBillPDF(ctx context.Context, billID string) (pdfBytes []byte, filename string, err error) {
	bill, err := uc.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if bill == nil {
		return nil, "", domain.NewNotFoundError("factura", billID)
	}

	items, err := uc.billRepo.GetItemsByBillID(ctx, billID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	customer, err := uc.customerRepo.GetByID(ctx, bill.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", domain.NewNotFoundError("cliente", bill.CustomerID)
	}

	companyName := ""
	if user, err := uc.userRepo.GetByID(ctx, bill.UserID); err == nil && user != nil {
		companyName = user.CompanyName
	}

	pdfBytes, err = uc.generator.GenerateBillPDF(ctx, BillDocument{
		CompanyName: companyName,
		Bill:        bill,
		Customer:    customer,
		Items:       items,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", bill.BillNumber), nil
}
