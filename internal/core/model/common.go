package model

// Application identifiers
const (
	AppName    = "go-vessel-trail"
	AppDirName = ".go-vessel-trail"
	AppTitle   = "Vessel Tracker"
)

// Output format identifiers
const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatSummary = "summary"
	FormatGeoJSON = "geojson"
	FormatMsgPack = "msgpack"
)
