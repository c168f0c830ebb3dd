package grapherror

// Category represents the main error category for graph operations
type Category string

const (
	// CategoryReference indicates an edge that cannot be resolved to splits
	CategoryReference Category = "reference"

	// CategoryData indicates a corpus that could not be loaded or is malformed
	CategoryData Category = "data"

	// CategoryLifecycle indicates a redraw/teardown ordering problem
	CategoryLifecycle Category = "lifecycle"

	// CategoryWebSocket indicates WebSocket connection/communication errors
	CategoryWebSocket Category = "websocket"

	// CategoryInternal indicates internal server errors
	CategoryInternal Category = "internal"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Reference Subcategories
const (
	// SubcategoryRefCommentIndex indicates idx2id has no entry for an edge's comment index
	SubcategoryRefCommentIndex = "comment_index"

	// SubcategoryRefSplitOffset indicates the lookup has no split at an edge's offset
	SubcategoryRefSplitOffset = "split_offset"
)

// Data Subcategories
const (
	// SubcategoryDataDecode indicates the corpus file could not be decoded
	SubcategoryDataDecode = "decode"

	// SubcategoryDataStorage indicates a database error
	SubcategoryDataStorage = "storage"

	// SubcategoryDataEmpty indicates the corpus has no comments (not necessarily an error)
	SubcategoryDataEmpty = "empty"
)

// Lifecycle Subcategories
const (
	// SubcategoryLifecycleRedraw indicates a redraw could not complete
	SubcategoryLifecycleRedraw = "redraw"

	// SubcategoryLifecycleClosed indicates use of a controller after Close
	SubcategoryLifecycleClosed = "closed"
)

// WebSocket Subcategories
const (
	// SubcategoryWSConnection indicates connection establishment failed
	SubcategoryWSConnection = "connection"

	// SubcategoryWSRead indicates error reading from WebSocket
	SubcategoryWSRead = "read"

	// SubcategoryWSWrite indicates error writing to WebSocket
	SubcategoryWSWrite = "write"

	// SubcategoryWSUpgrade indicates WebSocket upgrade failed
	SubcategoryWSUpgrade = "upgrade"

	// SubcategoryWSMessage indicates a client message could not be understood
	SubcategoryWSMessage = "message"
)

// Internal Subcategories
const (
	// SubcategoryInternalPanic indicates a panic was recovered
	SubcategoryInternalPanic = "panic"

	// SubcategoryInternalConfig indicates configuration error
	SubcategoryInternalConfig = "config"
)
