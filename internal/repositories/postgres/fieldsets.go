package postgres

import "github.com/devtrail/bootcamp-service/internal/query"

// Per-entity whitelists mapping wire field names onto columns. Anything a
// caller filters, selects or sorts on outside these sets is dropped.

var bootcampFields = query.Fieldset{
	"id":            {Column: "id"},
	"name":          {Column: "name"},
	"slug":          {Column: "slug"},
	"description":   {Column: "description"},
	"website":       {Column: "website"},
	"phone":         {Column: "phone"},
	"email":         {Column: "email"},
	"address":       {Column: "address"},
	"zipcode":       {Column: "zipcode"},
	"careers":       {Column: "careers", JSONArray: true},
	"averageRating": {Column: "average_rating"},
	"averageCost":   {Column: "average_cost"},
	"photo":         {Column: "photo"},
	"housing":       {Column: "housing"},
	"jobAssistance": {Column: "job_assistance"},
	"jobGuarantee":  {Column: "job_guarantee"},
	"acceptGi":      {Column: "accept_gi"},
	"user":          {Column: "user_id"},
	"createdAt":     {Column: "created_at"},
}

var courseFields = query.Fieldset{
	"id":                   {Column: "id"},
	"title":                {Column: "title"},
	"description":          {Column: "description"},
	"weeks":                {Column: "weeks"},
	"tuition":              {Column: "tuition"},
	"minimumSkill":         {Column: "minimum_skill"},
	"scholarshipAvailable": {Column: "scholarship_available"},
	"bootcamp":             {Column: "bootcamp_id"},
	"user":                 {Column: "user_id"},
	"createdAt":            {Column: "created_at"},
}

var reviewFields = query.Fieldset{
	"id":        {Column: "id"},
	"title":     {Column: "title"},
	"text":      {Column: "text"},
	"rating":    {Column: "rating"},
	"bootcamp":  {Column: "bootcamp_id"},
	"user":      {Column: "user_id"},
	"createdAt": {Column: "created_at"},
}

var userFields = query.Fieldset{
	"id":        {Column: "id"},
	"name":      {Column: "name"},
	"email":     {Column: "email"},
	"role":      {Column: "role"},
	"createdAt": {Column: "created_at"},
}
