package dto

import (
	"time"

	"github.com/docuflow/ledgercore/internal/core/domain"
)

// ListTransactionGroupsParams holds query parameters for group listings.
type ListTransactionGroupsParams struct {
	Status *domain.TransactionStatus `form:"status" binding:"omitempty,oneof=PENDING COMPLETED FAILED ROLLED_BACK"`
	Limit  int                       `form:"limit"`
}

// TransactionGroupResponse is the read model for a transaction group summary.
type TransactionGroupResponse struct {
	GroupID          string    `json:"groupID"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	TransactionIDs   []string  `json:"transactionIDs"`
	TransactionCount int       `json:"transactionCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ListTransactionGroupsResponse wraps a page of group summaries.
type ListTransactionGroupsResponse struct {
	Groups []TransactionGroupResponse `json:"groups"`
}

// ToTransactionGroupResponse converts a domain group summary to its DTO.
func ToTransactionGroupResponse(s *domain.TransactionGroupSummary) TransactionGroupResponse {
	return TransactionGroupResponse{
		GroupID:          s.Group.GroupID,
		Name:             s.Group.Name,
		Description:      s.Group.Description,
		TransactionIDs:   s.TransactionIDs,
		TransactionCount: s.TransactionCount,
		CreatedAt:        s.Group.CreatedAt,
	}
}
