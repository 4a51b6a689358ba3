package domain

import "strings"

// StatusInfo holds the display strings shown for a status.
type StatusInfo struct {
	Status      TicketStatus `json:"status"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
}

var statusCatalog = []StatusInfo{
	{TicketStatusNew, "جديد", "تم استلام بلاغك وسيتم مراجعته قريباً"},
	{TicketStatusInProgress, "قيد التنفيذ", "جاري العمل على حل المشكلة حالياً"},
	{TicketStatusTransferred, "تم التحويل", "تم تحويل البلاغ إلى الفريق المختص"},
	{TicketStatusCompleted, "مكتمل", "تمت معالجة البلاغ وإغلاقه بنجاح"},
	{TicketStatusFixed, "تم الإصلاح", "تم إصلاح المشكلة"},
	{TicketStatusNeedsFollowup, "يحتاج متابعة", "البلاغ بحاجة إلى متابعة إضافية"},
	{TicketStatusCannotFix, "تعذر الإصلاح", "تعذر إصلاح المشكلة، يرجى التواصل مع الإدارة"},
}

var unknownStatus = StatusInfo{Label: "غير معروف", Description: "حالة غير معروفة"}

// Statuses returns every allowed status in lifecycle order.
func Statuses() []StatusInfo {
	out := make([]StatusInfo, len(statusCatalog))
	copy(out, statusCatalog)
	return out
}

// Info returns the display strings for the status.
func (s TicketStatus) Info() StatusInfo {
	for _, info := range statusCatalog {
		if info.Status == s {
			return info
		}
	}
	info := unknownStatus
	info.Status = s
	return info
}

// Valid reports whether s is one of the enumerated statuses.
func (s TicketStatus) Valid() bool {
	for _, info := range statusCatalog {
		if info.Status == s {
			return true
		}
	}
	return false
}

// ParseStatus validates a status string, ignoring case and surrounding space.
func ParseStatus(val string) (TicketStatus, bool) {
	status := TicketStatus(strings.ToLower(strings.TrimSpace(val)))
	return status, status.Valid()
}
