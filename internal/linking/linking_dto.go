package linking

type AuthorizeResponse struct {
	AuthorizeURL string `json:"authorize_url"`
}

type CallbackRequest struct {
	Code  string `form:"code" binding:"required"`
	State string `form:"state" binding:"required"`
}

type LinkStatusResponse struct {
	Linked      bool   `json:"linked"`
	DisplayName string `json:"display_name,omitempty"`
}
