package logger

// Standard field key constants for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldError       = "error"
	FieldServiceKey  = "service_key"
	FieldLifetime    = "lifetime"
	FieldContainerID = "container_id"
	FieldParentID    = "parent_id"
	FieldScopeID     = "scope_id"
	FieldConstructor = "constructor"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Debug("registered", logger.Fields(logger.FieldServiceKey, "shop.ProductService"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}
