package http

import (
	"context"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/doclingo/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func outputFormatSchema() *openapi3.Schema {
	values := make([]any, 0, len(model.OutputFormats))
	for _, f := range model.OutputFormats {
		values = append(values, f.String())
	}
	return openapi3.NewStringSchema().
		WithEnum(values...).
		WithDefault(model.DefaultOutputFormat.String())
}

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("detail", openapi3.NewStringSchema()).
		WithRequired([]string{"detail"})
}

func resultSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("filename", openapi3.NewStringSchema()).
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("format", openapi3.NewStringSchema()).
		WithProperty("content", openapi3.NewStringSchema().WithNullable()).
		WithProperty("error", openapi3.NewStringSchema().WithNullable())
}

func convertOperation(id, summary string, body *openapi3.RequestBody, ok *openapi3.Schema, withFormat bool) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Tags = []string{"conversion"}
	if withFormat {
		op.AddParameter(openapi3.NewQueryParameter(fieldOutputFormat).WithSchema(outputFormatSchema()))
	}
	if body != nil {
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}
	op.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("Successful conversion").WithJSONSchema(ok))
	op.AddResponse(http.StatusBadRequest, openapi3.NewResponse().WithDescription("Invalid request").WithJSONSchema(errorSchema()))
	op.AddResponse(http.StatusInternalServerError, openapi3.NewResponse().WithDescription("Conversion failure").WithJSONSchema(errorSchema()))
	return op
}

func getOperation(id, summary string, ok *openapi3.Schema) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Tags = []string{"service"}
	op.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("OK").WithJSONSchema(ok))
	return op
}

// newOpenAPIDocument describes every route served by NewServer
func newOpenAPIDocument(ctx context.Context) (*openapi3.T, error) {
	binary := openapi3.NewStringSchema().WithFormat("binary")

	fileBody := openapi3.NewRequestBody().WithRequired(true).WithFormDataSchema(
		openapi3.NewObjectSchema().
			WithProperty(fieldFile, binary).
			WithProperty(fieldOutputFormat, outputFormatSchema()).
			WithRequired([]string{fieldFile}),
	)
	batchBody := openapi3.NewRequestBody().WithRequired(true).WithFormDataSchema(
		openapi3.NewObjectSchema().
			WithProperty(fieldFiles, openapi3.NewArraySchema().WithItems(binary)).
			WithProperty(fieldOutputFormat, outputFormatSchema()).
			WithRequired([]string{fieldFiles}),
	)
	urlBody := openapi3.NewRequestBody().WithJSONSchema(
		openapi3.NewObjectSchema().
			WithProperty(fieldURL, openapi3.NewStringSchema().WithFormat("uri")).
			WithProperty(fieldOutputFormat, outputFormatSchema()),
	)

	convertResp := openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("filename", openapi3.NewStringSchema()).
		WithProperty("format", openapi3.NewStringSchema()).
		WithProperty("content", openapi3.NewStringSchema())
	urlResp := openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("url", openapi3.NewStringSchema()).
		WithProperty("format", openapi3.NewStringSchema()).
		WithProperty("content", openapi3.NewStringSchema())
	batchResp := openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("total", openapi3.NewIntegerSchema()).
		WithProperty("successful", openapi3.NewIntegerSchema()).
		WithProperty("failed", openapi3.NewIntegerSchema()).
		WithProperty("results", openapi3.NewArraySchema().WithItems(resultSchema()))
	healthResp := openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("version", openapi3.NewStringSchema()).
		WithProperty("device", openapi3.NewStringSchema().WithEnum(model.DeviceCPU, model.DeviceCUDA)).
		WithProperty("cuda_available", openapi3.NewBoolSchema()).
		WithProperty("gpu_name", openapi3.NewStringSchema()).
		WithProperty("gpu_count", openapi3.NewIntegerSchema()).
		WithProperty("cuda_version", openapi3.NewStringSchema())
	rootResp := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema())

	urlOp := convertOperation("convertURL", "Convert a document fetched from a URL", urlBody, urlResp, true)
	urlOp.AddParameter(openapi3.NewQueryParameter(fieldURL).WithSchema(openapi3.NewStringSchema().WithFormat("uri")))

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "doclingo",
			Description: "Document conversion API",
			Version:     types.Version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/", &openapi3.PathItem{Get: getOperation("root", "Service banner", rootResp)}),
			openapi3.WithPath("/health", &openapi3.PathItem{Get: getOperation("health", "Health and compute device", healthResp)}),
			openapi3.WithPath("/convert", &openapi3.PathItem{
				Post: convertOperation("convertFile", "Convert an uploaded document", fileBody, convertResp, true),
			}),
			openapi3.WithPath("/convert-url", &openapi3.PathItem{Post: urlOp}),
			openapi3.WithPath("/convert-batch", &openapi3.PathItem{
				Post: convertOperation("convertBatch", "Convert uploaded documents one by one", batchBody, batchResp, true),
			}),
		),
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, goerr.Wrap(err, "invalid OpenAPI document")
	}

	return doc, nil
}

func openAPIHandler(doc *openapi3.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, doc)
	}
}
