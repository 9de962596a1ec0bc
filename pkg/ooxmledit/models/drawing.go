package models

// Shape is a drawing shape, picture or connector anchored on a sheet.
// Positions and sizes are in pixels.
type Shape struct {
	// ID is the unique shape identifier within the workbook.
	ID string `json:"id"`
	// DrawingID is the cNvPr id inside the drawing part.
	DrawingID string `json:"drawing_id,omitempty"`
	// Name is the cNvPr name.
	Name string `json:"name,omitempty"`
	// Kind is shape, picture, connector or group.
	Kind string `json:"kind"`
	// Type is a readable geometry label, e.g. "AutoShape-Rectangle".
	Type string `json:"type,omitempty"`
	// Text is the visible text content of the shape.
	Text string `json:"text,omitempty"`
	// L is the left offset in pixels.
	L int `json:"l"`
	// T is the top offset in pixels.
	T int `json:"t"`
	// W is the width in pixels.
	W int `json:"w"`
	// H is the height in pixels.
	H int `json:"h"`
	// Anchor is the covered cell range for two-cell anchors, e.g. "B2:D6".
	Anchor string `json:"anchor,omitempty"`
	// Rotation is the rotation angle in degrees.
	Rotation *float64 `json:"rotation,omitempty"`
	// BeginID and EndID are the DrawingIDs a connector attaches to.
	BeginID string `json:"begin_id,omitempty"`
	EndID   string `json:"end_id,omitempty"`
	// BeginArrow and EndArrow are the connector head and tail types.
	BeginArrow string `json:"begin_arrow,omitempty"`
	EndArrow   string `json:"end_arrow,omitempty"`
	// Direction is the connector compass heading (N, NE, E, SE, S, SW, W, NW).
	Direction string `json:"direction,omitempty"`
}

// ChartSeries represents series metadata for a chart.
type ChartSeries struct {
	// Name is the series display name.
	Name string `json:"name"`
	// NameRange is the range reference for the series name.
	NameRange string `json:"name_range,omitempty"`
	// XRange is the range reference for category or X values.
	XRange string `json:"x_range,omitempty"`
	// YRange is the range reference for values.
	YRange string `json:"y_range,omitempty"`
}

// Chart is an embedded chart.
type Chart struct {
	// ID is the unique chart identifier within the workbook.
	ID string `json:"id"`
	// Name is the graphic frame name.
	Name string `json:"name"`
	// Part is the chart part name.
	Part string `json:"part"`
	// ChartType is the first plot's type (e.g. Line, Bar, Pie).
	ChartType string `json:"chart_type"`
	// Title is the chart title.
	Title string `json:"title,omitempty"`
	// YAxisTitle is the value axis title.
	YAxisTitle string `json:"y_axis_title,omitempty"`
	// L, T, W and H are the frame bounds in pixels.
	L int `json:"l"`
	T int `json:"t"`
	W int `json:"w"`
	H int `json:"h"`
	// Series is the list of series included in the chart.
	Series []ChartSeries `json:"series"`
}
