package handlers

import (
	"time"

	"contas/internal/dto"
	"contas/internal/models"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toUserProfileResponse(user *models.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

func toCategoryResponse(category *models.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
		Icon:        category.Icon,
		Color:       category.Color,
	}
}

func toCategoryResponses(categories []models.Category) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i]))
	}
	return out
}

func toLedgerEntryResponse(entry *models.LedgerEntry, category *models.Category) dto.LedgerEntryResponse {
	resp := dto.LedgerEntryResponse{
		ID:                 entry.ID.String(),
		User:               entry.UserID.String(),
		Amount:             entry.Amount.StringFixed(2),
		Description:        entry.Description,
		Date:               entry.Date.Format(dateLayout),
		RecurrencePeriod:   entry.RecurrencePeriod,
		NextDueDate:        formatDate(entry.NextDueDate),
		TotalInstallments:  entry.TotalInstallments,
		CurrentInstallment: entry.CurrentInstallment,
		CreatedAt:          entry.CreatedAt,
		UpdatedAt:          entry.UpdatedAt,
	}
	if entry.CategoryID != nil {
		id := entry.CategoryID.String()
		resp.Category = &id
	}
	if category != nil {
		resp.CategoryName = category.Name
	}
	if entry.InstallmentValue.Valid {
		v := entry.InstallmentValue.Decimal.StringFixed(2)
		resp.InstallmentValue = &v
	}
	return resp
}

func toExpenseResponse(expense *models.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		LedgerEntryResponse: toLedgerEntryResponse(&expense.LedgerEntry, expense.Category),
		ExpenseType:         expense.ExpenseType,
		Paid:                expense.Paid,
		PaidDate:            formatDate(expense.PaidDate),
	}
}

func toExpenseResponses(expenses []models.Expense) []dto.ExpenseResponse {
	out := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, toExpenseResponse(&expenses[i]))
	}
	return out
}

func toIncomeResponse(income *models.Income) dto.IncomeResponse {
	return dto.IncomeResponse{
		LedgerEntryResponse: toLedgerEntryResponse(&income.LedgerEntry, income.Category),
		IncomeType:          income.IncomeType,
	}
}

func toIncomeResponses(incomes []models.Income) []dto.IncomeResponse {
	out := make([]dto.IncomeResponse, 0, len(incomes))
	for i := range incomes {
		out = append(out, toIncomeResponse(&incomes[i]))
	}
	return out
}

func toAuditLogResponses(logs []*models.AuditLog) []dto.AuditLogResponse {
	out := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.AuditLogResponse{
			ID:         l.ID.String(),
			Action:     l.Action,
			Resource:   l.Resource,
			ResourceID: l.ResourceID,
			IPAddress:  l.IPAddress,
			UserAgent:  l.UserAgent,
			Metadata:   l.Metadata,
			CreatedAt:  l.CreatedAt,
		})
	}
	return out
}
