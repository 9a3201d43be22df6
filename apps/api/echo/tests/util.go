package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/tathmini/apps/api/echo"
	"github.com/trezcool/tathmini/core"
	"github.com/trezcool/tathmini/core/admin"
	"github.com/trezcool/tathmini/core/assignment"
	appfs "github.com/trezcool/tathmini/fs"
	authsvc "github.com/trezcool/tathmini/services/auth"
	emailsvc "github.com/trezcool/tathmini/services/email"
	inmemdb "github.com/trezcool/tathmini/storage/database/inmem"
)

var (
	admRepo admin.Repository
	asgRepo assignment.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type stdLogger struct {
	std *log.Logger
}

func (l stdLogger) Enable(bool)                        {}
func (l stdLogger) Debug(msg string, _ ...interface{}) { l.std.Println(msg) }
func (l stdLogger) Info(msg string, _ ...interface{})  { l.std.Println(msg) }
func (l stdLogger) Warn(msg string, _ ...interface{})  { l.std.Println(msg) }
func (l stdLogger) Error(msg string, args ...interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}
func (l stdLogger) Fatal(msg string, _ ...interface{}) { l.std.Fatal(msg) }

func setup(t *testing.T) Server {
	t.Helper()

	core.Conf.Debug = false
	core.Conf.TestMode = true

	logger := stdLogger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)}

	// set up DB & repos
	db := inmemdb.NewDB()
	admRepo = inmemdb.NewAdminRepository(db)
	asgRepo = inmemdb.NewAssignmentRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	admSvc := admin.NewService(admRepo, authsvc.NewLocalService(admRepo))
	asgSvc := assignment.NewService(asgRepo, mailSvc)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	core.ParseEmailTemplates(appfs.FS, logger)

	// set up server
	return NewServer(
		ServerDeps{
			Conf:          core.Conf,
			Logger:        logger,
			AdminSvc:      admSvc,
			AssignmentSvc: asgSvc,
			Validate:      validate,
			Translator:    translator,
		},
	)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, adm admin.Admin) string {
	claims := GetAdminClaims(adm)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
