package assets

// ServiceName is used for tracing resource attributes and log tags.
const ServiceName = "jcoder"
