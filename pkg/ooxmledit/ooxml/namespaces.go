// Package ooxml holds the vocabulary shared by the word-processing and
// spreadsheet codecs: namespace tables, measurement units and the error
// taxonomy.
package ooxml

// Frequently used namespace URIs.
const (
	NSWordMain       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSWord2010       = "http://schemas.microsoft.com/office/word/2010/wordml"
	NSWordDrawing    = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NSWordGroup      = "http://schemas.microsoft.com/office/word/2010/wordprocessingGroup"
	NSWordShape      = "http://schemas.microsoft.com/office/word/2010/wordprocessingShape"
	NSWordCanvas     = "http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas"
	NSSheetMain      = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	NSSheet2009      = "http://schemas.microsoft.com/office/spreadsheetml/2009/9/main"
	NSExcelMain      = "http://schemas.microsoft.com/office/excel/2006/main"
	NSRelationships  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSCompatibility  = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	NSDrawingMain    = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSPicture        = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	NSChart          = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	NSSheetDrawing   = "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
	NSVML            = "urn:schemas-microsoft-com:vml"
	NSVMLOffice      = "urn:schemas-microsoft-com:office:office"
	NSVMLExcel       = "urn:schemas-microsoft-com:office:excel"
	NSXML            = "http://www.w3.org/XML/1998/namespace"
	NSCoreProperties = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
)

// Namespace pairs a conventional prefix with its URI.
type Namespace struct {
	Prefix string
	URI    string
}

// WordNamespaces lists every namespace the word-processing codec recognizes,
// in the order Word itself declares them.
var WordNamespaces = []Namespace{
	{"wpc", NSWordCanvas},
	{"cx", "http://schemas.microsoft.com/office/drawing/2014/chartex"},
	{"cx1", "http://schemas.microsoft.com/office/drawing/2015/9/8/chartex"},
	{"cx2", "http://schemas.microsoft.com/office/drawing/2015/10/21/chartex"},
	{"cx3", "http://schemas.microsoft.com/office/drawing/2016/5/9/chartex"},
	{"cx4", "http://schemas.microsoft.com/office/drawing/2016/5/10/chartex"},
	{"cx5", "http://schemas.microsoft.com/office/drawing/2016/5/11/chartex"},
	{"cx6", "http://schemas.microsoft.com/office/drawing/2016/5/12/chartex"},
	{"cx7", "http://schemas.microsoft.com/office/drawing/2016/5/13/chartex"},
	{"cx8", "http://schemas.microsoft.com/office/drawing/2016/5/14/chartex"},
	{"mc", NSCompatibility},
	{"aink", "http://schemas.microsoft.com/office/drawing/2016/ink"},
	{"am3d", "http://schemas.microsoft.com/office/drawing/2017/model3d"},
	{"o", NSVMLOffice},
	{"oel", "http://schemas.microsoft.com/office/2019/extlst"},
	{"r", NSRelationships},
	{"m", "http://schemas.openxmlformats.org/officeDocument/2006/math"},
	{"v", NSVML},
	{"wp14", "http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing"},
	{"wp", NSWordDrawing},
	{"w10", "urn:schemas-microsoft-com:office:word"},
	{"w", NSWordMain},
	{"w14", NSWord2010},
	{"w15", "http://schemas.microsoft.com/office/word/2012/wordml"},
	{"w16cex", "http://schemas.microsoft.com/office/word/2018/wordml/cex"},
	{"w16cid", "http://schemas.microsoft.com/office/word/2016/wordml/cid"},
	{"w16", "http://schemas.microsoft.com/office/word/2018/wordml"},
	{"w16du", "http://schemas.microsoft.com/office/word/2023/wordml/word16du"},
	{"w16sdtdh", "http://schemas.microsoft.com/office/word/2020/wordml/sdtdatahash"},
	{"w16sdtfl", "http://schemas.microsoft.com/office/word/2024/wordml/sdtformatlock"},
	{"w16se", "http://schemas.microsoft.com/office/word/2015/wordml/symex"},
	{"wpg", NSWordGroup},
	{"wpi", "http://schemas.microsoft.com/office/word/2010/wordprocessingInk"},
	{"wne", "http://schemas.microsoft.com/office/word/2006/wordml"},
	{"wps", NSWordShape},
	{"pic", NSPicture},
	{"a", NSDrawingMain},
	{"a14", "http://schemas.microsoft.com/office/drawing/2010/main"},
}

// SheetNamespaces lists every namespace the spreadsheet codec recognizes.
// The main namespace uses the empty prefix because worksheets declare it as
// the default namespace.
var SheetNamespaces = []Namespace{
	{"", NSSheetMain},
	{"r", NSRelationships},
	{"mc", NSCompatibility},
	{"x14", NSSheet2009},
	{"x14ac", "http://schemas.microsoft.com/office/spreadsheetml/2009/9/ac"},
	{"xr", "http://schemas.microsoft.com/office/spreadsheetml/2014/revision"},
	{"xr2", "http://schemas.microsoft.com/office/spreadsheetml/2015/revision2"},
	{"xr3", "http://schemas.microsoft.com/office/spreadsheetml/2016/revision3"},
	{"xr6", "http://schemas.microsoft.com/office/spreadsheetml/2016/revision6"},
	{"xr10", "http://schemas.microsoft.com/office/spreadsheetml/2016/revision10"},
	{"xm", NSExcelMain},
	{"xdr", NSSheetDrawing},
	{"a", NSDrawingMain},
	{"pic", NSPicture},
	{"c", NSChart},
	{"v", NSVML},
	{"x", NSVMLExcel},
	{"o", NSVMLOffice},
	{"rel", NSPackageRels},
	{"cp", NSCoreProperties},
	{"dc", "http://purl.org/dc/elements/1.1/"},
	{"dcterms", "http://purl.org/dc/terms/"},
}

var (
	uriByPrefix = map[string]string{}
	prefixByURI = map[string]string{}
)

func init() {
	for _, tables := range [][]Namespace{WordNamespaces, SheetNamespaces} {
		for _, ns := range tables {
			if ns.Prefix != "" {
				if _, ok := uriByPrefix[ns.Prefix]; !ok {
					uriByPrefix[ns.Prefix] = ns.URI
				}
			}
			if _, ok := prefixByURI[ns.URI]; !ok {
				prefixByURI[ns.URI] = ns.Prefix
			}
		}
	}
	prefixByURI[NSXML] = "xml"
	uriByPrefix["xml"] = NSXML
}

// URI returns the namespace URI registered for a conventional prefix.
func URI(prefix string) (string, bool) {
	uri, ok := uriByPrefix[prefix]
	return uri, ok
}

// Prefix returns the conventional prefix for a namespace URI. The spreadsheet
// main namespace maps to the empty prefix.
func Prefix(uri string) (string, bool) {
	prefix, ok := prefixByURI[uri]
	return prefix, ok
}

// QName joins a prefix and a local name the way they appear in markup.
func QName(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
