package filter

// DefaultExclude lists title keywords of non-recruitment notices: results,
// rosters, interview and medical-check arrangements and the like.
var DefaultExclude = []string{
	"成绩", "名单", "面试", "体检", "领取", "资格审查", "公示", "录用", "通知",
}

// DefaultInclude lists title keywords that mark a recruitment announcement.
var DefaultInclude = []string{
	"招聘", "招募", "选聘", "招考", "遴选", "选调",
}
