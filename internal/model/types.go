package model

// Store is a remote File Search store. Name is the opaque resource
// identifier assigned by the service (e.g. "fileSearchStores/abc123");
// DisplayName is the operator-chosen label.
type Store struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Document is one indexed file inside a store. Name is the full resource
// identifier (e.g. "fileSearchStores/abc123/documents/def456").
type Document struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	CreateTime  string `json:"createTime"`
	UpdateTime  string `json:"updateTime"`
}

// Operation is a handle on a long-running remote import job.
type Operation struct {
	Name  string          `json:"name"`
	Done  bool            `json:"done"`
	Error *OperationError `json:"error,omitempty"`
}

// OperationError is the terminal error of a failed operation.
type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// UploadResult records the outcome of one upload+import cycle. DisplayName
// is always populated, even when the failure happened before the upload
// call was issued.
type UploadResult struct {
	File        string
	DisplayName string
	MIMEType    string
	Err         error
}

// Status renders the result the way the batch table shows it.
func (r UploadResult) Status() string {
	if r.Err != nil {
		return "error: " + r.Err.Error()
	}
	return "success"
}

// DeleteResult records the outcome of one document delete in a batch.
type DeleteResult struct {
	Document string
	Err      error
}

// Status renders the result the way the batch table shows it.
func (r DeleteResult) Status() string {
	if r.Err != nil {
		return "error: " + r.Err.Error()
	}
	return "deleted"
}

// AskResult holds the answer text plus the raw response payload for the
// inspector. Raw is the undecoded JSON body as returned by the service.
type AskResult struct {
	Question string
	Answer   string
	Raw      []byte
}
