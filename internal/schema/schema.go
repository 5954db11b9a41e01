// Package schema defines the positional layout of a submission sheet: section
// titles, field labels and their enum value maps. The sheet writer and the
// sheet reader both iterate these tables, so row order is agreed in one place.
package schema

// Field describes a single label/value row. ValueMap, when present, translates
// the internal form value into the display string written to the sheet; the
// reverse direction is derived on demand.
type Field struct {
	Key      string
	Label    string
	ValueMap map[string]string
}

// Section is a titled block of fields rendered in order.
type Section struct {
	Title  string
	Fields []Field
}

// Section titles. The reader locates variable-length blocks by these strings.
const (
	TitleLeader        = "项目负责人信息"
	TitleEnterprise    = "企业信息"
	TitleMembers       = "项目成员信息"
	TitleAwards        = "赛事获奖信息"
	TitleIP            = "知识产权信息"
	TitleQualification = "企业资质信息"
	TitleFinance       = "投融资信息"
)

// Display values the reader and writer key decisions on.
const (
	ProjectTypeEnterprise = "1"
	ProjectTypeTeam       = "2"

	DisplayEnterprise = "在孵企业"
	DisplayTeam       = "创业团队"
)

// Image caption labels.
const (
	LabelBusinessLicense   = "营业执照照片"
	LabelInventionPatent   = "发明专利证书"
	LabelSoftwareCopyright = "软件著作权证书"
)

var (
	GenderMap = map[string]string{"male": "男", "female": "女"}
	YesNoMap  = map[string]string{"yes": "是", "no": "否"}
	LevelMap  = map[string]string{"undergraduate": "本科", "junior": "专科"}

	ProjectTypeMap = map[string]string{
		ProjectTypeEnterprise: DisplayEnterprise,
		ProjectTypeTeam:       DisplayTeam,
	}

	TaxpayerTypeMap = map[string]string{"general": "一般纳税人", "small": "小规模纳税人"}

	// RegistrationTypeMap carries the national enterprise registration type
	// codes. Display strings keep the numeric prefix on purpose.
	RegistrationTypeMap = map[string]string{
		"110": "110.国有",
		"120": "120.集体",
		"130": "130.股份合作",
		"141": "141.国有联营",
		"142": "142.集体联营",
		"143": "143.国有与集体联营",
		"149": "149.其他联营",
		"151": "151.国有独资公司",
		"159": "159.其他有限责任公司",
		"160": "160.股份有限公司",
		"171": "171.私营独资",
		"172": "172.私营合伙",
		"173": "173.私营有限责任",
		"174": "174.私营股份有限",
		"190": "190.其他",
		"210": "210.与港澳台商合资经营",
		"220": "220.与港澳台商合作经营",
		"230": "230.港澳台商独资",
		"240": "240.港澳台商投资股份有限公司",
		"290": "290.其他港澳台商投资",
		"310": "310.中外合资经营",
		"320": "320.中外合作经营",
		"330": "330.外资企业",
		"340": "340.外商投资股份有限公司",
		"390": "390.其他外商投资",
	}
)

// LeaderSection covers the project leader block, including the project type
// discriminator that decides whether the enterprise section follows.
var LeaderSection = Section{
	Title: TitleLeader,
	Fields: []Field{
		{Key: "projectLeaderName", Label: "项目负责人姓名"},
		{Key: "projectLeaderCollege", Label: "项目负责人学院"},
		{Key: "projectLeaderGrade", Label: "项目负责人年级"},
		{Key: "projectLeaderGender", Label: "项目负责人性别", ValueMap: GenderMap},
		{Key: "projectLeaderPhone", Label: "项目负责人联系电话"},
		{Key: "projectType", Label: "项目类型", ValueMap: ProjectTypeMap},
	},
}

// EnterpriseSection is written only when projectType resolves to an incubated
// enterprise.
var EnterpriseSection = Section{
	Title: TitleEnterprise,
	Fields: []Field{
		{Key: "enterpriseAccount", Label: "在孵企业帐号(18位统一社会信用代码)"},
		{Key: "enterpriseName", Label: "企业名称"},
		{Key: "establishmentDate", Label: "企业成立时间"},
		{Key: "registeredCapital", Label: "企业成立时注册资本(千元)"},
		{Key: "incubationStartDate", Label: "企业入驻时间"},
		{Key: "areaOccupied", Label: "占用孵化器场地面积(平方米)"},
		{Key: "registrationType", Label: "企业登记注册类型", ValueMap: RegistrationTypeMap},
		{Key: "techField", Label: "企业所属技术领域"},
		{Key: "coreTechField1", Label: "企业核心技术所属领域 - 大类"},
		{Key: "coreTechField2", Label: "企业核心技术所属领域 - 中类"},
		{Key: "coreTechField3", Label: "企业核心技术所属领域 - 小类"},
		{Key: "industryCategory1", Label: "行业类别 - 大类"},
		{Key: "industryCategory2", Label: "行业类别 - 中类"},
		{Key: "industryCategory3", Label: "行业类别 - 小类"},
		{Key: "industryCategory4", Label: "行业类别 - 细类"},
		{Key: "taxpayerType", Label: "企业纳税人类型", ValueMap: TaxpayerTypeMap},
		{Key: "totalRevenue", Label: "在孵企业总收入(千元)"},
		{Key: "netProfit", Label: "在孵企业净利润(千元)"},
		{Key: "exportAmount", Label: "在孵企业出口总额(千元)"},
		{Key: "rdExpenditure", Label: "研究与试验发展经费(千元)"},
		{Key: "taxPayment", Label: "实际上缴税费(千元)"},
	},
}

var IPSection = Section{
	Title: TitleIP,
	Fields: []Field{
		{Key: "ipApplications", Label: "当年知识产权申请数(件)"},
		{Key: "ipAuthorizations", Label: "当年知识产权授权数(件)"},
		{Key: "inventionPatents", Label: "其中：发明专利(件)"},
		{Key: "softwareCopyrights", Label: "软件著作权(件)"},
		{Key: "techContracts", Label: "技术合同成交数量(项)"},
		{Key: "techContractAmount", Label: "技术合同成交额(千元)"},
		{Key: "nationalProjects", Label: "当年承担国家级科技计划项目数(项)"},
	},
}

var QualificationSection = Section{
	Title: TitleQualification,
	Fields: []Field{
		{Key: "isHighTechEnterprise", Label: "是否高新技术企业", ValueMap: YesNoMap},
		{Key: "highTechCertificateNo", Label: "高新技术企业证书编号"},
		{Key: "isTechSme", Label: "是否是科技型中小企业", ValueMap: YesNoMap},
		{Key: "techSmeCode", Label: "科技型中小企业登记编码"},
		{Key: "isInnovativeSme", Label: "是否创新型中小企业", ValueMap: YesNoMap},
		{Key: "isSpecializedSme", Label: "是否专精特新中小企业", ValueMap: YesNoMap},
		{Key: "isGiantSme", Label: "是否专精特新“小巨人”企业", ValueMap: YesNoMap},
	},
}

var FinanceSection = Section{
	Title: TitleFinance,
	Fields: []Field{
		{Key: "financingAmount", Label: "获得投融资金额(千元)"},
		{Key: "incubatorFundAmount", Label: "其中：获得孵化器孵化基金投资额(千元)"},
		{Key: "bankLoanAmount", Label: "其中：获银行贷款额(千元)"},
	},
}

// MemberHeaders is the fixed member table header row.
var MemberHeaders = []string{"序号", "姓名", "性别", "是否在校生", "学院", "年级", "层次", "联系电话", "是否留学人员"}

// AwardHeaders is the fixed award table header row.
var AwardHeaders = []string{"序号", "赛事完整名称", "所获奖项", "图片证明"}

// Sections returns every section in sheet order. The enterprise section is
// positional even though the writer may omit it.
func Sections() []Section {
	return []Section{
		LeaderSection,
		EnterpriseSection,
		MembersPlaceholder(),
		AwardsPlaceholder(),
		IPSection,
		QualificationSection,
		FinanceSection,
	}
}

// MembersPlaceholder and AwardsPlaceholder mark the variable-length table
// blocks; they carry a title only. The writer renders them from the record's
// member and award lists instead of field tables.
func MembersPlaceholder() Section { return Section{Title: TitleMembers} }
func AwardsPlaceholder() Section  { return Section{Title: TitleAwards} }

// Display translates an internal value to its sheet representation. Values
// without a mapping pass through unchanged.
func (f Field) Display(value string) string {
	if f.ValueMap != nil {
		if mapped, ok := f.ValueMap[value]; ok {
			return mapped
		}
	}
	return value
}

// Parse translates a sheet value back to the internal form value.
func (f Field) Parse(display string) string {
	if f.ValueMap != nil {
		for value, mapped := range f.ValueMap {
			if mapped == display {
				return value
			}
		}
	}
	return display
}
