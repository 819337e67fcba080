package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/grade"
	"github.com/trezcool/daftari/core/paper"
	"github.com/trezcool/daftari/core/student"
	"github.com/trezcool/daftari/core/subject"
	logsvc "github.com/trezcool/daftari/services/logger"
	inmemdb "github.com/trezcool/daftari/storage/database/inmem"
)

type testEnv struct {
	app        Server
	studentSvc *student.Service
	subjectSvc *subject.Service
	paperSvc   *paper.Service
	gradeSvc   *grade.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	// set up DB & repos
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}

	// set up services
	studentSvc := student.NewService(inmemdb.NewStudentRepository(db))
	subjectSvc := subject.NewService(inmemdb.NewSubjectRepository(db))
	paperSvc := paper.NewService(inmemdb.NewPaperRepository(db), subjectSvc)
	gradeSvc := grade.NewService(inmemdb.NewGradeRepository(db), studentSvc, paperSvc)

	conf := &core.Config{
		Env:      "TEST",
		TestMode: true,
		AppName:  "Daftari",
		Build:    "test",
	}

	// set up server
	app := NewServer(
		ServerDeps{
			Conf:       conf,
			Logger:     logsvc.NewConsoleLogger(log.New(io.Discard, "", 0)),
			StudentSvc: studentSvc,
			SubjectSvc: subjectSvc,
			PaperSvc:   paperSvc,
			GradeSvc:   gradeSvc,
		},
	)

	return &testEnv{
		app:        app,
		studentSvc: studentSvc,
		subjectSvc: subjectSvc,
		paperSvc:   paperSvc,
		gradeSvc:   gradeSvc,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func (tt httpTest) run(t *testing.T, app Server) {
	t.Run(tt.name, func(t *testing.T) {
		req, rec := newRequest(tt.method, tt.path, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
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

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		if rec.Body.Len() > 0 {
			t.Errorf("failed! data = %v; want empty body", rec.Body.String())
		}
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// fixture helpers; these go through the services directly

func createStudent(t *testing.T, svc *student.Service, sid, first, last, email string) student.Student {
	t.Helper()
	std, err := svc.Create(context.Background(), student.NewStudent{
		StudentID: sid,
		FirstName: first,
		LastName:  last,
		Email:     email,
	})
	if err != nil {
		t.Fatalf("createStudent(): %v", err)
	}
	return std
}

func createSubject(t *testing.T, svc *subject.Service, name, code string) subject.Subject {
	t.Helper()
	sub, err := svc.Create(context.Background(), subject.NewSubject{
		Name: name,
		Code: code,
	})
	if err != nil {
		t.Fatalf("createSubject(): %v", err)
	}
	return sub
}

func createPaper(t *testing.T, svc *paper.Service, name, ptype, subjectID, totalScore string) paper.Paper {
	t.Helper()
	total := core.MustDecimal(totalScore)
	ppr, err := svc.Create(context.Background(), paper.NewPaper{
		Name:       name,
		PaperType:  ptype,
		SubjectID:  subjectID,
		TotalScore: &total,
	})
	if err != nil {
		t.Fatalf("createPaper(): %v", err)
	}
	return ppr
}

func createGrade(t *testing.T, svc *grade.Service, studentID, paperID, score, notes string) grade.Grade {
	t.Helper()
	scr := core.MustDecimal(score)
	grd, err := svc.Create(context.Background(), grade.NewGrade{
		StudentID: studentID,
		PaperID:   paperID,
		Score:     &scr,
		Notes:     notes,
	})
	if err != nil {
		t.Fatalf("createGrade(): %v", err)
	}
	return grd
}
