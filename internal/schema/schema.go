// 包 schema：各实体的输出字段与标签同义词表
// 约束：字段顺序即输出顺序；同义词顺序即匹配优先级（首个命中即采用，而非最具体者）。
package schema

// Field：一个逻辑字段及其候选标签
type Field struct {
	Name   string
	Labels []string
}

// 站点装饰文本：命中即拒绝
var (
	VehicleNoise = []string{"VahanX", "RC Search", "top-header", "records in seconds", "/>"}
	DLNoise      = []string{"VahanX", "DL Search"}
)

// RegistrationDate：车辆登记日期字段名（用于车龄推导）
const RegistrationDate = "Registration Date"

// 车辆 RC 字段；Vehicle Number 为输入回显，不在此表中
var Vehicle = []Field{
	{"Owner Name", []string{"Owner Name", "Owner", "Registered Owner"}},
	{"Father's Name", []string{"Father's Name", "Father Name", "S/O", "D/O", "W/O"}},
	{"Owner Serial No", []string{"Owner Serial No", "Owner Serial Number", "Serial No"}},
	{"Address", []string{
		"Address", "Owner Address", "Registered Address", "Present Address", "Permanent Address",
		"Owner's Address", "Correspondence Address", "Communication Address", "Residential Address", "Current Address",
	}},
	{"Maker Model", []string{"Maker Model", "Maker", "Make", "Manufacturer", "Maker Name", "Vehicle Make", "Brand", "Maker Description"}},
	{"Model Name", []string{"Model Name", "Model", "Vehicle Model", "Variant"}},
	{"Vehicle Class", []string{"Vehicle Class", "Class", "Vehicle Category"}},
	{"Fuel Type", []string{"Fuel Type", "Fuel", "Fuel Used"}},
	{"Color", []string{"Color", "Colour", "Vehicle Color"}},
	{"Body Type", []string{"Body Type", "Body", "Vehicle Body"}},
	{RegistrationDate, []string{"Registration Date", "Reg Date", "Date of Registration", "Registered On"}},
	{"Manufacturing Year", []string{
		"Manufacturing Month and Year", "Manufacturing Year", "Mfg Year", "Year of Manufacture",
		"Mfg Month and Year", "Month and Year of Manufacture", "Manufacturing Date",
	}},
	{"Insurance Expiry", []string{"Insurance Expiry", "Insurance Validity", "Insurance Upto", "Insurance Valid Till"}},
	{"Fitness Upto", []string{"Fitness Upto", "Fitness Validity", "Fitness Valid Till"}},
	{"Tax Upto", []string{"Tax Upto", "Tax Validity", "Tax Valid Till", "Road Tax Upto"}},
	{"PUC Upto", []string{"PUC Upto", "PUC Validity", "Pollution Upto"}},
	{"Financier Name", []string{"Financier Name", "Financier", "Financed By"}},
	{"Registered RTO", []string{"Registered RTO", "RTO", "RTO Office", "Registering Authority"}},
	{"Chassis Number", []string{"Chassis Number", "Chassis No", "Chassis"}},
	{"Engine Number", []string{"Engine Number", "Engine No", "Engine"}},
	{"Seating Capacity", []string{"Seating Capacity", "Seating", "No of Seats"}},
	{"Number of Cylinders", []string{"Number of Cylinders", "Cylinders", "No of Cylinders"}},
	{"Cubic Capacity", []string{"Cubic Capacity", "CC", "Engine Capacity"}},
	{"Wheelbase", []string{"Wheelbase", "Wheel Base"}},
	{"Unladen Weight", []string{"Unladen Weight", "ULW", "Kerb Weight"}},
	{"Gross Weight", []string{"Gross Weight", "GVW", "Gross Vehicle Weight"}},
	{"Standing Capacity", []string{"Standing Capacity", "Standing Cap"}},
	{"Sleeper Capacity", []string{"Sleeper Capacity", "Sleeper Cap"}},
}

// 驾驶证字段；DL Number 为输入回显
var DrivingLicense = []Field{
	{"Holder Name", []string{"Name", "Holder Name", "Driver Name", "License Holder", "Full Name", "Applicant Name"}},
	{"Father's Name", []string{"Father's Name", "Father Name", "S/O", "D/O", "W/O", "Guardian Name", "Parent Name"}},
	{"Date of Birth", []string{"Date of Birth", "DOB", "Birth Date", "Date Of Birth", "D.O.B", "Date of birth"}},
	{"Address", []string{
		"Address", "Permanent Address", "Present Address", "Residential Address", "Current Address",
		"Correspondence Address", "Communication Address", "Owner Address", "Holder Address",
	}},
	{"Issue Date", []string{"Issue Date", "Date of Issue", "Issued On", "DL Issue Date", "License Issue Date", "Date Of Issue"}},
	{"Valid From", []string{"Valid From", "Validity From", "Valid Since", "License Valid From", "DL Valid From"}},
	{"Valid Upto", []string{
		"Valid Upto", "Valid Till", "Validity Upto", "Valid Until", "Expiry Date", "License Valid Upto", "DL Valid Upto", "Validity",
	}},
	{"Vehicle Classes", []string{
		"Vehicle Classes", "Class of Vehicle", "COV", "Vehicle Class", "Authorized Vehicles", "Vehicle Category", "Classes",
	}},
	{"Blood Group", []string{"Blood Group", "Blood Type", "BG", "Blood Grp"}},
	{"Issuing RTO", []string{"Issuing RTO", "RTO", "RTO Office", "Issued By", "Issuing Authority", "RTO Code", "Registered RTO"}},
	{"DL Status", []string{"DL Status", "License Status", "Status", "Current Status"}},
	{"Last Transaction Date", []string{"Last Transaction Date", "Last Updated", "Transaction Date", "Last Modified"}},
	{"Initial Issue Date", []string{"Initial Issue Date", "First Issue Date", "Original Issue Date"}},
	{"Transport Valid From", []string{"Transport Valid From", "Commercial Valid From"}},
	{"Transport Valid Upto", []string{"Transport Valid Upto", "Commercial Valid Upto"}},
	{"Non-Transport Valid From", []string{"Non-Transport Valid From", "Non Transport Valid From"}},
	{"Non-Transport Valid Upto", []string{"Non-Transport Valid Upto", "Non Transport Valid Upto"}},
	{"Badge Number", []string{"Badge Number", "Badge No", "Badge"}},
	{"Hazardous Valid Upto", []string{"Hazardous Valid Upto", "Hazardous Validity"}},
	{"Hill Valid Upto", []string{"Hill Valid Upto", "Hill Validity"}},
}

// PhoneTags：号码追踪站点的表格标签（上游拼写 "Refrence City" 原样保留）
var PhoneTags = []string{
	"Owner Name", "Owner Address", "Hometown", "Refrence City", "Mobile Locations", "Tower Locations",
	"Country", "Mobile State", "SIM card", "IMEI number", "MAC address", "Connection", "IP address",
	"Owner Personality", "Language", "Tracking History", "Tracker Id", "Complaints",
}

// PhoneLegacy：/phone 端点使用的宽松标签（JSON 键 -> 页面标签）
var PhoneLegacy = []Field{
	{"owner", []string{"Owner Name"}},
	{"operator", []string{"Operator"}},
	{"circle", []string{"Circle"}},
	{"state", []string{"State"}},
	{"connectionType", []string{"Type"}},
}
