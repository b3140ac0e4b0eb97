package serverutils

type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    T      `json:"data"`
}

// PagedResponse keeps paging fields next to data rather than nested in it.
type PagedResponse[T any] struct {
	Success    bool  `json:"success"`
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ListResponse always renders data as an array, never null.
func ListResponse[T any](message string, data []T) BaseResponse[[]T] {
	if data == nil {
		data = []T{}
	}
	return SuccessResponse(message, data)
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Error:   message,
	}
}

func PagedSuccessResponse[T any](data []T, total int64, page, limit, totalPages int) PagedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PagedResponse[T]{
		Success:    true,
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
