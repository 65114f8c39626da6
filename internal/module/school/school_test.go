package school

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"fest-judging-system/internal/global/jwt"
	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/test"
	"fest-judging-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	keys []string
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, key string, body []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

var admin = test.WithPayload(jwt.Payload{UserID: 1, RoleID: model.RoleAdmin})

func TestCreateSchool(t *testing.T) {
	test.NewDB(t)

	test.NoError(t, test.DoRequest(t, CreateSchool, CreateSchoolReq{Name: "Greenwood", Code: "GW"}, admin))
	resp := test.DoRequest(t, CreateSchool, CreateSchoolReq{Name: "Greenwood"}, admin)
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func TestStudents_ScopedToOwnSchool(t *testing.T) {
	db := test.NewDB(t)
	own := test.CreateSchool(t, db, "Greenwood")
	other := test.CreateSchool(t, db, "Riverside")
	faculty := test.WithPayload(jwt.Payload{UserID: 2, RoleID: model.RoleFaculty, SchoolID: own.ID})

	resp := test.DoRequest(t, CreateStudent, CreateStudentReq{Name: "Aditya", AgeCategory: model.AgeCategoryJunior, Gender: "M"},
		faculty, test.WithParam("id", strconv.Itoa(int(own.ID))))
	test.NoError(t, resp)

	resp = test.DoRequest(t, CreateStudent, CreateStudentReq{Name: "Bina", AgeCategory: model.AgeCategoryJunior},
		faculty, test.WithParam("id", strconv.Itoa(int(other.ID))))
	test.ErrorEqual(t, response.ErrForbidden, resp)

	resp = test.DoRequest(t, CreateStudent, CreateStudentReq{Name: "Chirag", AgeCategory: model.AgeCategorySpecial},
		faculty, test.WithParam("id", strconv.Itoa(int(own.ID))))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, ListStudents, nil, faculty, test.WithParam("id", strconv.Itoa(int(own.ID))))
	test.NoError(t, resp)
	var page struct {
		Students []model.Student `json:"students"`
		Total    int64           `json:"total"`
	}
	test.DecodeData(t, resp, &page)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Aditya", page.Students[0].Name)

	resp = test.DoRequest(t, ListSchools, nil, faculty)
	var schools struct {
		Schools []model.School `json:"schools"`
	}
	test.DecodeData(t, resp, &schools)
	require.Len(t, schools.Schools, 1)
	assert.Equal(t, own.ID, schools.Schools[0].ID)
}

func TestCreateFaculty_WithLoginAccount(t *testing.T) {
	db := test.NewDB(t)
	school := test.CreateSchool(t, db, "Greenwood")

	resp := test.DoRequest(t, CreateFaculty, CreateFacultyReq{Name: "Mrs Rao", Email: "rao@greenwood.test", Password: "secret-pass"},
		admin, test.WithParam("id", strconv.Itoa(int(school.ID))))
	test.NoError(t, resp)

	var user model.User
	require.NoError(t, db.Preload("Faculty").First(&user, "email = ?", "rao@greenwood.test").Error)
	assert.Equal(t, model.RoleFaculty, user.RoleID)
	require.NotNil(t, user.Faculty)
	assert.Equal(t, school.ID, user.Faculty.SchoolID)
	assert.True(t, tools.PasswordCompare("secret-pass", user.Password))

	resp = test.DoRequest(t, CreateFaculty, CreateFacultyReq{Name: "Mr Rao", Email: "rao@greenwood.test"},
		admin, test.WithParam("id", strconv.Itoa(int(school.ID))))
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func uploadPhoto(t *testing.T, studentID uint, filename string, content []byte, payload jwt.Payload) response.ResponseBody {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/test", &body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(studentID))}}
	c.Set(jwt.PayloadKey, &jwt.Claims{Payload: payload})
	UploadStudentPhoto(c)

	var resp response.ResponseBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestUploadStudentPhoto(t *testing.T) {
	db := test.NewDB(t)
	school := test.CreateSchool(t, db, "Greenwood")
	student := test.CreateStudent(t, db, school.ID, "Aditya Rao", model.AgeCategoryJunior)
	fake := &fakeUploader{}
	uploader = fake
	t.Cleanup(func() { uploader = nil })
	png := []byte("\x89PNG\r\n\x1a\n0000")

	resp := uploadPhoto(t, student.ID, "me.png", png, jwt.Payload{RoleID: model.RoleFaculty, SchoolID: school.ID})
	test.NoError(t, resp)
	require.Len(t, fake.keys, 1)
	assert.True(t, strings.HasPrefix(fake.keys[0], "students/aditya-rao-"))
	assert.True(t, strings.HasSuffix(fake.keys[0], ".png"))

	var stored model.Student
	require.NoError(t, db.First(&stored, student.ID).Error)
	assert.Equal(t, "https://cdn.test/"+fake.keys[0], stored.PhotoURL)

	resp = uploadPhoto(t, student.ID, "me.gif", png, jwt.Payload{RoleID: model.RoleAdmin})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = uploadPhoto(t, student.ID, "me.png", png, jwt.Payload{RoleID: model.RoleFaculty, SchoolID: school.ID + 1})
	test.ErrorEqual(t, response.ErrForbidden, resp)
}
