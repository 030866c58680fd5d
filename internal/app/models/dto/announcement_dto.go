package dto

// CreateAnnouncementRequest is the payload for posting an announcement
type CreateAnnouncementRequest struct {
	Title   string `json:"title" binding:"required,max=100"`
	Content string `json:"content" binding:"required"`
}
